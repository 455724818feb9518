package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterPerClient(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatalf("expected burst of 2 to be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("expected third request to be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("expected a different client to have its own bucket")
	}

	rl.now = func() time.Time { return base.Add(time.Second) }
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("expected a token after one second")
	}
}

func TestRateLimiterPrune(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return base }
	rl.Allow("stale")

	rl.now = func() time.Time { return base.Add(limiterIdleTTL - time.Minute) }
	rl.Allow("fresh")

	rl.now = func() time.Time { return base.Add(limiterIdleTTL + time.Second) }
	if got := rl.Prune(); got != 1 {
		t.Fatalf("expected 1 pruned client, got %d", got)
	}
	if _, ok := rl.limiters["fresh"]; !ok {
		t.Fatalf("expected fresh client to survive")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler := RateLimit(1, 1)(okHandler(nil))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/catalog/doctors", nil)
	req.RemoteAddr = "192.0.2.10:5000"
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/catalog/doctors", nil)
	req.RemoteAddr = "192.0.2.10:5001"
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same host on another port, got %d", second.Code)
	}
	if second.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header")
	}
}

func TestRateLimitDisabled(t *testing.T) {
	handler := RateLimit(0, 0)(okHandler(nil))
	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}
