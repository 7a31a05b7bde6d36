package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doFrom(h http.Handler, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", nil)
	req.RemoteAddr = remoteAddr
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	h := NewRateLimiter(1, 3).Handler(okHandler())

	for i := 0; i < 3; i++ {
		if code := doFrom(h, "10.0.0.1:1234"); code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, code, http.StatusOK)
		}
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	h := NewRateLimiter(0.001, 2).Handler(okHandler())

	doFrom(h, "10.0.0.1:1234")
	doFrom(h, "10.0.0.1:1234")

	if code := doFrom(h, "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status = %d, want %d", code, http.StatusTooManyRequests)
	}
}

func TestRateLimiter_TracksClientsSeparately(t *testing.T) {
	h := NewRateLimiter(0.001, 1).Handler(okHandler())

	if code := doFrom(h, "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first client: status = %d, want %d", code, http.StatusOK)
	}
	if code := doFrom(h, "10.0.0.1:5678"); code != http.StatusTooManyRequests {
		t.Errorf("same IP, new port: status = %d, want %d (keyed by IP, not port)", code, http.StatusTooManyRequests)
	}
	if code := doFrom(h, "10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("different IP: status = %d, want %d", code, http.StatusOK)
	}
}
