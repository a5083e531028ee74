package middleware

import (
	"testing"
	"time"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestAllowBurstThenDeny(t *testing.T) {
	rl := NewRateLimitMiddleware(testLogger(t), 20, time.Minute)
	defer rl.Stop()

	for i := 1; i <= 20; i++ {
		if !rl.Allow("u1") {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if rl.Allow("u1") {
		t.Fatalf("request 21 within the window should be denied")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	rl := NewRateLimitMiddleware(testLogger(t), 1, time.Minute)
	defer rl.Stop()

	if !rl.Allow("u1") {
		t.Fatalf("first request for u1 should be allowed")
	}
	if rl.Allow("u1") {
		t.Fatalf("second request for u1 should be denied")
	}
	if !rl.Allow("u2") {
		t.Fatalf("u2 has its own bucket and should be allowed")
	}
}

func TestAllowRefillsOverTime(t *testing.T) {
	rl := NewRateLimitMiddleware(testLogger(t), 2, 50*time.Millisecond)
	defer rl.Stop()

	rl.Allow("u1")
	rl.Allow("u1")
	if rl.Allow("u1") {
		t.Fatalf("bucket should be empty")
	}

	time.Sleep(60 * time.Millisecond)
	if !rl.Allow("u1") {
		t.Fatalf("bucket should refill after the window elapses")
	}
}

func TestDefaultsApplied(t *testing.T) {
	rl := NewRateLimitMiddleware(testLogger(t), 0, 0)
	defer rl.Stop()

	for i := 1; i <= 20; i++ {
		if !rl.Allow("u1") {
			t.Fatalf("request %d should fit the default burst", i)
		}
	}
	if rl.Allow("u1") {
		t.Fatalf("default burst is 20, request 21 should be denied")
	}
}
