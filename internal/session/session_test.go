package session

import (
	"errors"
	"testing"
	"time"
)

func TestLoginIssuesToken(t *testing.T) {
	store := NewStore(time.Hour)

	sess, err := store.Login("student@example.edu", "hunter2")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token == "" {
		t.Fatalf("expected a token")
	}

	got, err := store.Validate(sess.Token)
	if err != nil || got.Email != "student@example.edu" {
		t.Fatalf("validate = %+v, err=%v", got, err)
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	store := NewStore(time.Hour)

	cases := []struct{ email, password string }{
		{"", ""},
		{"student@example.edu", ""},
		{"", "hunter2"},
		{"   ", "hunter2"},
	}
	for _, tc := range cases {
		if _, err := store.Login(tc.email, tc.password); !errors.Is(err, ErrMissingCredentials) {
			t.Errorf("Login(%q, %q) = %v, want ErrMissingCredentials", tc.email, tc.password, err)
		}
	}
}

func TestAnyNonEmptyCredentialsPass(t *testing.T) {
	store := NewStore(time.Hour)
	// No verification: garbage works as well as real credentials.
	if _, err := store.Login("x", "y"); err != nil {
		t.Fatalf("login with arbitrary credentials: %v", err)
	}
}

func TestValidateRejectsUnknownAndExpired(t *testing.T) {
	store := NewStore(time.Hour)

	if _, err := store.Validate(""); !errors.Is(err, ErrNoSession) {
		t.Fatalf("empty token: %v", err)
	}
	if _, err := store.Validate("nope"); !errors.Is(err, ErrNoSession) {
		t.Fatalf("unknown token: %v", err)
	}

	sess, _ := store.Login("a@b.c", "p")
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := store.Validate(sess.Token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("expired token must be rejected, got %v", err)
	}
	if store.Count() != 0 {
		t.Fatalf("expired session should be removed lazily")
	}
}

func TestLogoutDropsSession(t *testing.T) {
	store := NewStore(time.Hour)
	sess, _ := store.Login("a@b.c", "p")

	store.Logout(sess.Token)
	if _, err := store.Validate(sess.Token); !errors.Is(err, ErrNoSession) {
		t.Fatalf("session survived logout: %v", err)
	}
	store.Logout("unknown")
}

func TestCleanExpired(t *testing.T) {
	store := NewStore(time.Hour)
	store.Login("a@b.c", "p")
	store.Login("d@e.f", "p")

	if n := store.CleanExpired(); n != 0 {
		t.Fatalf("nothing should be expired yet, got %d", n)
	}
	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if n := store.CleanExpired(); n != 2 {
		t.Fatalf("CleanExpired = %d, want 2", n)
	}
}
