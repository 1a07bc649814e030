package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveOrigin(t *testing.T) {
	allowed := []string{"https://portal.example.com", "https://admin.example.com"}

	cases := []struct {
		name     string
		headers  map[string]string
		fallback string
		want     string
	}{
		{
			name:     "allow-listed origin echoed",
			headers:  map[string]string{"Origin": "https://admin.example.com"},
			fallback: "https://portal.example.com",
			want:     "https://admin.example.com",
		},
		{
			name:     "unknown origin falls back",
			headers:  map[string]string{"Origin": "https://evil.example.com"},
			fallback: "https://portal.example.com",
			want:     "https://portal.example.com",
		},
		{
			name: "forwarded headers used when allow-listed",
			headers: map[string]string{
				"X-Forwarded-Proto": "https",
				"X-Forwarded-Host":  "admin.example.com",
			},
			fallback: "https://portal.example.com",
			want:     "https://admin.example.com",
		},
		{
			name: "spoofed forwarded host falls back",
			headers: map[string]string{
				"X-Forwarded-Proto": "https",
				"X-Forwarded-Host":  "evil.example.com",
			},
			fallback: "https://portal.example.com",
			want:     "https://portal.example.com",
		},
		{
			name: "forwarded chain uses first hop",
			headers: map[string]string{
				"X-Forwarded-Proto": "https, http",
				"X-Forwarded-Host":  "admin.example.com, internal",
			},
			fallback: "https://portal.example.com",
			want:     "https://admin.example.com",
		},
		{
			name:     "no headers uses fallback",
			headers:  nil,
			fallback: "https://portal.example.com",
			want:     "https://portal.example.com",
		},
		{
			name:     "no fallback uses localhost default",
			headers:  nil,
			fallback: "",
			want:     "http://localhost:3000",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tc.headers {
				h.Set(k, v)
			}
			if got := ResolveOrigin(h, allowed, tc.fallback); got != tc.want {
				t.Fatalf("ResolveOrigin = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestCORSHeadersAndPreflight(t *testing.T) {
	s := NewServerWithDeps(testConfig(), ServerDeps{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	w := httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://portal.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := w.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("vary = %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/v1/buildings", nil)
	req.Header.Set("Origin", "https://portal.example.com")
	w = httptest.NewRecorder()
	s.r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Fatal("preflight missing allow-methods")
	}
}
