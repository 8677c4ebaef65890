package cache

import (
	"testing"
	"time"
)

func TestLRUCacheBasics(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)

	c.Set("a", 1)
	c.Set("b", 2)
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Fatalf("get a = %d,%v", v, ok)
	}

	// "a" was just touched, so adding "c" must evict "b"
	c.Set("c", 3)
	if _, ok := c.Get("b"); ok {
		t.Fatalf("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("expected a retained")
	}
	if c.Size() != 2 {
		t.Fatalf("size = %d, want 2", c.Size())
	}
}

func TestLRUCacheTTL(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	c.SetWithTTL("k", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if n := c.CleanExpired(); n != 0 {
		// Get already removed it
		t.Fatalf("clean removed %d, want 0", n)
	}
}

func TestLRUCacheDelete(t *testing.T) {
	c := NewLRUCache[string](10, time.Minute)
	c.Set("k", "v")
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected delete to remove entry")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewLRUCache[int](10, time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(5 * time.Millisecond)
	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("clean removed %d, want 2", n)
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d after cleanup", c.Size())
	}
}
