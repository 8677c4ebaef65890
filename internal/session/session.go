// Package session implements the login gate. Credentials are not verified:
// any non-empty email and password pair gets a session. The gate exists so
// the dashboard has a door, not a lock.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CookieName is the session cookie issued on login.
const CookieName = "finplan_session"

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrNoSession          = errors.New("no active session")
)

// Session is one authenticated browser.
type Session struct {
	Token     string
	Email     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store keeps sessions in memory for the process lifetime.
type Store struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Login issues a session token when both fields are non-empty. That is the
// whole check.
func (s *Store) Login(email, password string) (Session, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return Session{}, ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := Session{
		Token:     uuid.NewString(),
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.sessions[sess.Token] = sess
	return sess, nil
}

// Validate returns the session for a token, expiring it lazily.
func (s *Store) Validate(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, ErrNoSession
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, ErrNoSession
	}
	return sess, nil
}

// Logout drops the session. Unknown tokens are a no-op.
func (s *Store) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// CleanExpired removes expired sessions and returns how many were dropped.
func (s *Store) CleanExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for token, sess := range s.sessions {
		if now.After(sess.ExpiresAt) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
