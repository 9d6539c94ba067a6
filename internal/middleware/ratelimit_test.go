package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestIPRateLimiterAllowsWithinBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("10.0.0.1") {
			t.Fatalf("Request %d denied within burst", i+1)
		}
	}
	if limiter.Allow("10.0.0.1") {
		t.Error("Request beyond burst allowed")
	}
}

func TestIPRateLimiterIsolatesIPs(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)

	if !limiter.Allow("10.0.0.1") {
		t.Fatal("First IP denied")
	}
	if !limiter.Allow("10.0.0.2") {
		t.Error("Second IP throttled by first IP's bucket")
	}
}

func TestRateLimitFunc(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)

	handler := RateLimitFunc(limiter, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("First request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("Second request status = %d, want 429", rec.Code)
	}
}

func TestGetIPPrefersForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	if ip := getIP(req); ip != "10.0.0.1:1234" {
		t.Errorf("getIP = %q, want RemoteAddr", ip)
	}

	req.Header.Set("X-Real-IP", "203.0.113.7")
	if ip := getIP(req); ip != "203.0.113.7" {
		t.Errorf("getIP = %q, want X-Real-IP", ip)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.9")
	if ip := getIP(req); ip != "198.51.100.9" {
		t.Errorf("getIP = %q, want X-Forwarded-For", ip)
	}
}
