package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultSecurityConfig(t *testing.T) {
	config := DefaultSecurityConfig()
	if !config.EnableCORS {
		t.Error("EnableCORS should be true by default")
	}
	if len(config.AllowedOrigins) != 1 || config.AllowedOrigins[0] != "*" {
		t.Errorf("AllowedOrigins = %v, want [*]", config.AllowedOrigins)
	}
	if len(config.AllowedMethods) != 2 || config.AllowedMethods[0] != http.MethodGet || config.AllowedMethods[1] != http.MethodOptions {
		t.Errorf("AllowedMethods = %v, want [GET OPTIONS]", config.AllowedMethods)
	}
}

func TestSecurityMiddleware_SecurityHeaders(t *testing.T) {
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	tests := []struct {
		header string
		want   string
	}{
		{"X-Content-Type-Options", "nosniff"},
		{"X-Frame-Options", "DENY"},
		{"Referrer-Policy", "no-referrer"},
		{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.header, func(t *testing.T) {
			if got := rec.Header().Get(tt.header); got != tt.want {
				t.Errorf("%s = %q, want %q", tt.header, got, tt.want)
			}
		})
	}
	if !nextCalled {
		t.Error("next handler was not called")
	}
}

func TestSecurityMiddleware_CORS(t *testing.T) {
	specific := SecurityConfig{EnableCORS: true, AllowedOrigins: []string{"http://grafana.local", "http://other.local"}, AllowedMethods: []string{"GET"}}
	tests := []struct {
		name       string
		config     SecurityConfig
		origin     string
		wantOrigin string
	}{
		{"disabled", SecurityConfig{}, "http://example.com", ""},
		{"wildcard", DefaultSecurityConfig(), "http://example.com", "*"},
		{"wildcard without origin", DefaultSecurityConfig(), "", "*"},
		{"first listed origin", specific, "http://grafana.local", "http://grafana.local"},
		{"second listed origin", specific, "http://other.local", "http://other.local"},
		{"unlisted origin", specific, "http://evil.local", ""},
		{"no origin with specific list", specific, "", ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			handler := SecurityMiddleware(tt.config, func(w http.ResponseWriter, r *http.Request) {})
			req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			handler(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
			if tt.wantOrigin != "" && rec.Header().Get("Access-Control-Allow-Methods") == "" {
				t.Error("Access-Control-Allow-Methods should be set")
			}
		})
	}
}

func TestSecurityMiddleware_Preflight(t *testing.T) {
	nextCalled := false
	handler := SecurityMiddleware(DefaultSecurityConfig(), func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
	})
	req := httptest.NewRequest(http.MethodOptions, "/metrics", http.NoBody)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if nextCalled {
		t.Error("next handler should not be called for OPTIONS")
	}
	if rec.Header().Get("Access-Control-Max-Age") == "" {
		t.Error("preflight should carry CORS headers")
	}
}
