package worker

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 1 {
		t.Errorf("expected fallback burst 1 for negative input, got %d", l2.burst)
	}

	l3 := NewLimiter(0, 4)
	if l3.limit != rate.Inf {
		t.Errorf("expected unlimited rate for zero input, got %v", l3.limit)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/foo"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A second host has its own bucket
	if err := limiter.Wait(ctx, "http://other.example.org"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	if err := limiter.Wait(ctx, "/relative/path"); err == nil {
		t.Errorf("expected error for URL without host")
	}
}

func TestLimiter_WaitWithDelay(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	start := time.Now()
	if err := limiter.WaitWithDelay(ctx, "http://example.com", 50*time.Millisecond); err != nil {
		t.Fatalf("WaitWithDelay failed: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("expected delay >= 50ms, got %v", elapsed)
	}
}

func TestLimiter_WaitWithDelay_ContextCancel(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := limiter.WaitWithDelay(ctx, "http://example.com", 5*time.Second)
	if err == nil {
		t.Fatalf("expected context error, got nil")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("expected prompt return on cancellation, took %v", elapsed)
	}
}

func TestLimiter_ExhaustedBucket(t *testing.T) {
	limiter := NewLimiter(1, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com"); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst 1 is consumed; a non-blocking probe must fail
	if limiter.Allow("http://example.com") {
		t.Errorf("expected allow to fail for exhausted host")
	}

	// Another host is unaffected
	if !limiter.Allow("http://other.example.org") {
		t.Errorf("expected allow for fresh host")
	}
}

func TestLimiter_SharedHostBucket(t *testing.T) {
	limiter := NewLimiter(1, 1)

	// Case and port differences collapse to one host bucket
	if !limiter.Allow("http://Example.COM:8080/a") {
		t.Fatalf("first request should pass")
	}
	if limiter.Allow("http://example.com/b") {
		t.Errorf("expected same-host request to share the exhausted bucket")
	}
}

func TestLimiter_SetHostRate(t *testing.T) {
	limiter := NewLimiter(10, 10)
	limiter.SetHostRate("slow.example.com", 0.1, 1)

	if !limiter.Allow("http://slow.example.com") {
		t.Errorf("first request should pass")
	}
	if limiter.Allow("http://slow.example.com") {
		t.Errorf("second request should exceed the override")
	}
	if !limiter.Allow("http://fast.example.com") {
		t.Errorf("other host should keep the default rate")
	}
}

func TestLimiter_Unlimited(t *testing.T) {
	limiter := NewLimiter(0, 0)
	for i := 0; i < 20; i++ {
		if !limiter.Allow("http://example.com") {
			t.Fatalf("unlimited limiter denied request %d", i)
		}
	}
}

func TestHostKey(t *testing.T) {
	host, err := hostKey("http://Example.COM:8080/foo")
	if err != nil {
		t.Fatalf("hostKey failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := hostKey("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
	if _, err := hostKey("not-a-url"); err == nil {
		t.Errorf("expected error for URL without host")
	}

	if NewLimiter(1, 1).Allow("not-a-url") {
		t.Errorf("expected malformed URL to be denied")
	}
}
