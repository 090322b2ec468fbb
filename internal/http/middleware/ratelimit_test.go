package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3, nil)
	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request beyond burst should be denied")
	}
}

func TestRateLimiterIsolatesIPs(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	if !rl.Allow("1.1.1.1") {
		t.Fatal("first ip should be allowed")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("second ip should have its own bucket")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("first ip should be exhausted")
	}
}

func TestRateLimiterRefillsTokens(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	if !rl.Allow("3.3.3.3") {
		t.Fatal("first request should be allowed")
	}
	if rl.Allow("3.3.3.3") {
		t.Fatal("bucket should be empty")
	}

	rl.visitors["3.3.3.3"].seen = time.Now().Add(-2 * time.Second)
	if !rl.Allow("3.3.3.3") {
		t.Fatal("bucket should refill after idle time")
	}
}

func TestRateLimiterSweepsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1, 1, nil)
	rl.Allow("4.4.4.4")
	rl.visitors["4.4.4.4"].seen = time.Now().Add(-visitorTTL - time.Minute)
	rl.nextSweep = time.Now().Add(-time.Second)

	rl.Allow("5.5.5.5")
	if _, ok := rl.visitors["4.4.4.4"]; ok {
		t.Fatal("idle client should have been swept")
	}
	if _, ok := rl.visitors["5.5.5.5"]; !ok {
		t.Fatal("active client should survive the sweep")
	}
}

func TestRateLimitMiddlewareReturns429(t *testing.T) {
	handler := RateLimit(0.001, 1, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/feedback", nil)
	req.Header.Set("X-Real-Ip", "9.9.9.9")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request should be limited, got %d", rec.Code)
	}
}
