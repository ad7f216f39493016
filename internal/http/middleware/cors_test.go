package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCORSOriginAllowlist(t *testing.T) {
	tests := []struct {
		name      string
		allowed   []string
		origin    string
		wantAllow string
	}{
		{
			name:      "listed origin is echoed",
			allowed:   []string{"https://app.lexaid.example"},
			origin:    "https://app.lexaid.example",
			wantAllow: "https://app.lexaid.example",
		},
		{
			name:      "unknown origin gets no header",
			allowed:   []string{"https://app.lexaid.example"},
			origin:    "https://evil.example",
			wantAllow: "",
		},
		{
			name:      "wildcard echoes any origin",
			allowed:   []string{"*"},
			origin:    "https://partner.example",
			wantAllow: "https://partner.example",
		},
		{
			name:      "blank entries are ignored",
			allowed:   []string{" ", ""},
			origin:    "https://app.lexaid.example",
			wantAllow: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/privacy/detect", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantAllow {
				t.Fatalf("expected allow origin %q, got %q", tt.wantAllow, got)
			}
			if tt.wantAllow != "" && rec.Header().Get("Vary") != "Origin" {
				t.Fatalf("expected Vary: Origin on allowed responses")
			}
		})
	}
}

func TestCORSPreflightAdvertisesAPIHeaders(t *testing.T) {
	called := false
	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://app.lexaid.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()

	CORS([]string{"https://app.lexaid.example"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected preflight to short-circuit before the handler")
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	// Browsers must be allowed to send the tenant and session headers the
	// privacy endpoints read, and DELETE for transcript erasure.
	headers := rec.Header().Get("Access-Control-Allow-Headers")
	for _, want := range []string{"Authorization", "X-Org-Id", "X-Session-Id"} {
		if !strings.Contains(headers, want) {
			t.Fatalf("expected allowed headers to include %q, got %q", want, headers)
		}
	}
	methods := rec.Header().Get("Access-Control-Allow-Methods")
	if !strings.Contains(methods, http.MethodDelete) {
		t.Fatalf("expected allowed methods to include DELETE, got %q", methods)
	}
}

func TestCORSIgnoresRequestsWithoutOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	called := false
	CORS([]string{"*"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected handler to be called")
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("expected no allow origin header, got %q", got)
	}
}
