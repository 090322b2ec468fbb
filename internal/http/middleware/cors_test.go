package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCORSOriginHandling(t *testing.T) {
	tests := []struct {
		name      string
		allowed   []string
		origin    string
		wantAllow string
	}{
		{
			name:      "listed origin echoed back",
			allowed:   []string{"https://example.com"},
			origin:    "https://example.com",
			wantAllow: "https://example.com",
		},
		{
			name:      "unknown origin gets no headers",
			allowed:   []string{"https://example.com"},
			origin:    "https://unknown.example",
			wantAllow: "",
		},
		{
			name:      "wildcard echoes any origin",
			allowed:   []string{"*"},
			origin:    "https://random.example",
			wantAllow: "https://random.example",
		},
		{
			name:      "no origin header",
			allowed:   []string{"*"},
			origin:    "",
			wantAllow: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed)(next).ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("allow-origin = %q, want %q", got, tt.wantAllow)
			}
			if tt.wantAllow != "" && rec.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Fatal("expected allow-methods header alongside allow-origin")
			}
		})
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/agents", nil)
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()

	CORS([]string{"https://example.com"})(next).ServeHTTP(rec, req)

	if called {
		t.Fatal("preflight must not reach the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
