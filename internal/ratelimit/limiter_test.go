package ratelimit

import (
	"context"
	"strconv"
	"testing"
	"time"
)

func TestMemoryLimiter_Window(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(10, time.Minute)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		ok, err := l.Allow(ctx, "S123")
		if err != nil {
			t.Fatalf("allow %d: %v", i+1, err)
		}
		if !ok {
			t.Fatalf("call %d should be admitted", i+1)
		}
		now = now.Add(time.Second)
	}

	ok, err := l.Allow(ctx, "S123")
	if err != nil {
		t.Fatalf("allow 11: %v", err)
	}
	if ok {
		t.Fatalf("call 11 within the window should be denied")
	}

	// another identity is unaffected
	ok, _ = l.Allow(ctx, "S999")
	if !ok {
		t.Fatalf("unrelated identity should be admitted")
	}

	// after the window elapses admission resumes
	now = now.Add(61 * time.Second)
	ok, err = l.Allow(ctx, "S123")
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !ok {
		t.Fatalf("call after the window elapsed should be admitted")
	}
}

func TestMemoryLimiter_DropsIdleIdentities(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(10, time.Minute)
	l.now = func() time.Time { return now }

	ctx := context.Background()
	for i := 0; i < 100; i++ {
		if ok, _ := l.Allow(ctx, "S"+strconv.Itoa(i)); !ok {
			t.Fatalf("identity %d should be admitted", i)
		}
	}
	if len(l.hits) != 100 {
		t.Fatalf("expected 100 tracked identities, got %d", len(l.hits))
	}

	// once every log has aged out, the next call sweeps them away
	now = now.Add(2 * time.Minute)
	if ok, _ := l.Allow(ctx, "S123"); !ok {
		t.Fatalf("fresh identity should be admitted")
	}
	if len(l.hits) != 1 {
		t.Fatalf("expected idle identities swept, got %d entries", len(l.hits))
	}
}
