package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestHeaders(t *testing.T) {
	h := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil))
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff")
	}
	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must not be sent over plain HTTP")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	req.TLS = &tls.ConnectionState{}
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Header().Get("Strict-Transport-Security") != "max-age=31536000; includeSubDomains" {
		t.Errorf("unexpected HSTS %q", rec.Header().Get("Strict-Transport-Security"))
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		origins    string
		origin     string
		method     string
		wantOrigin string
		wantStatus int
	}{
		{"wildcard", "*", "https://app.example", http.MethodGet, "*", http.StatusOK},
		{"empty means all", "", "https://app.example", http.MethodGet, "*", http.StatusOK},
		{"listed origin", "https://app.example/, https://admin.example", "https://app.example", http.MethodGet, "https://app.example", http.StatusOK},
		{"unlisted origin", "https://app.example", "https://evil.example", http.MethodGet, "", http.StatusOK},
		{"preflight", "https://app.example", "https://app.example", http.MethodOptions, "https://app.example", http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/income/add", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			NewCORS(tt.origins).Middleware(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status %d, want %d", rec.Code, tt.wantStatus)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name   string
		remote string
		xff    string
		xri    string
		want   string
	}{
		{"direct", "203.0.113.5:1234", "", "", "203.0.113.5"},
		{"spoofed header from public peer", "203.0.113.5:1234", "1.2.3.4", "", "203.0.113.5"},
		{"trusted proxy xff", "10.0.0.2:80", "198.51.100.7, 10.0.0.2", "", "198.51.100.7"},
		{"trusted proxy real ip", "127.0.0.1:80", "", "198.51.100.8", "198.51.100.8"},
		{"trusted proxy garbage", "10.0.0.2:80", "not-an-ip", "", "10.0.0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(req); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectorFlagsProbes(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(okHandler)

	probe := httptest.NewRequest(http.MethodGet, "/uploads/../.env", nil)
	h.ServeHTTP(httptest.NewRecorder(), probe)

	scanner := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	scanner.Header.Set("User-Agent", "sqlmap/1.7")
	h.ServeHTTP(httptest.NewRecorder(), scanner)

	normal := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard", nil)
	normal.Header.Set("User-Agent", "Mozilla/5.0")
	h.ServeHTTP(httptest.NewRecorder(), normal)

	if got := d.SuspiciousCount(); got != 2 {
		t.Errorf("suspicious count %d, want 2", got)
	}
}
