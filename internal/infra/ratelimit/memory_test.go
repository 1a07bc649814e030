package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiterWindow(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return current }})
	ctx := context.Background()
	const limit = 3
	window := time.Minute

	for i := 0; i < limit; i++ {
		decision, err := limiter.Allow(ctx, "k1", limit, window)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !decision.Allowed {
			t.Fatalf("call %d should be allowed", i)
		}
		if decision.Remaining != limit-i-1 {
			t.Fatalf("call %d remaining = %d, want %d", i, decision.Remaining, limit-i-1)
		}
	}

	decision, err := limiter.Allow(ctx, "k1", limit, window)
	if err != nil {
		t.Fatalf("allow over limit: %v", err)
	}
	if decision.Allowed {
		t.Fatal("call over limit should be denied")
	}
	if decision.Remaining != 0 {
		t.Fatalf("denied remaining = %d, want 0", decision.Remaining)
	}
	retryAfter := decision.ResetAt.Sub(current)
	if retryAfter <= 0 || retryAfter > window {
		t.Fatalf("retry-after %s outside (0, %s]", retryAfter, window)
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	limiter := NewMemoryLimiter(MemoryLimiterConfig{Now: func() time.Time { return current }})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := limiter.Allow(ctx, "k1", 1, time.Minute); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}

	current = current.Add(time.Minute)
	decision, err := limiter.Allow(ctx, "k1", 1, time.Minute)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("call after window elapsed should be allowed")
	}
	if decision.Remaining != 0 {
		t.Fatalf("fresh window remaining = %d, want 0", decision.Remaining)
	}
}

func TestMemoryLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()

	if _, err := limiter.Allow(ctx, "k1", 1, time.Minute); err != nil {
		t.Fatalf("allow: %v", err)
	}
	decision, err := limiter.Allow(ctx, "k2", 1, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("separate key should have its own window")
	}
}

func TestMemoryLimiterConcurrentAdmissionBound(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	ctx := context.Background()
	const n = 32

	var wg sync.WaitGroup
	results := make([]bool, 2*n)
	for i := 0; i < 2*n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			decision, err := limiter.Allow(ctx, "shared", n, time.Minute)
			if err != nil {
				t.Errorf("allow: %v", err)
				return
			}
			results[i] = decision.Allowed
		}(i)
	}
	wg.Wait()

	allowed := 0
	for _, ok := range results {
		if ok {
			allowed++
		}
	}
	if allowed != n {
		t.Fatalf("expected exactly %d admissions, got %d", n, allowed)
	}
}

func TestMemoryLimiterZeroLimitDisabled(t *testing.T) {
	limiter := NewMemoryLimiter(MemoryLimiterConfig{})
	decision, err := limiter.Allow(context.Background(), "k1", 0, time.Minute)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("limit 0 disables limiting")
	}
}
