package cache

import (
	"testing"
	"time"
)

func TestOtterCache_SetGetDelete(t *testing.T) {
	c := New[int](100, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}
	c.Set("overview:2026-01-01", 42)
	got, ok := c.Get("overview:2026-01-01")
	if !ok || got != 42 {
		t.Fatalf("got %d, %v", got, ok)
	}
	c.Delete("overview:2026-01-01")
	if _, ok := c.Get("overview:2026-01-01"); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestOtterCache_DeletePrefix(t *testing.T) {
	c := New[string](100, time.Minute)
	c.Set("weekly:a", "a")
	c.Set("weekly:b", "b")
	c.Set("calendar:2026-01", "c")

	c.DeletePrefix("weekly:")
	if _, ok := c.Get("weekly:a"); ok {
		t.Fatal("weekly:a should be gone")
	}
	if _, ok := c.Get("calendar:2026-01"); !ok {
		t.Fatal("calendar entry should survive")
	}

	c.Clear()
	if _, ok := c.Get("calendar:2026-01"); ok {
		t.Fatal("expected empty cache after Clear")
	}
}

func TestNoop(t *testing.T) {
	var c Cache[int] = Noop[int]{}
	c.Set("k", 1)
	if _, ok := c.Get("k"); ok {
		t.Fatal("noop cache must never hit")
	}
	if c.Size() != 0 {
		t.Fatal("noop size must be zero")
	}
}
