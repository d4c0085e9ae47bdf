package security

import (
	"net/http"
	"strings"
)

// CORS answers cross-origin requests from the configured client origins.
type CORS struct {
	allowedOrigins []string
	allowAll       bool
}

// NewCORS accepts a comma-separated origin list. "*" or an empty list
// allows every origin.
func NewCORS(origins string) *CORS {
	c := &CORS{}
	for _, o := range strings.Split(origins, ",") {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		if o == "*" {
			c.allowAll = true
		}
		c.allowedOrigins = append(c.allowedOrigins, o)
	}
	if len(c.allowedOrigins) == 0 {
		c.allowAll = true
	}
	return c
}

func (c *CORS) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		h := w.Header()

		switch {
		case c.allowAll:
			h.Set("Access-Control-Allow-Origin", "*")
		case origin != "" && c.isOriginAllowed(origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
		}
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Expose-Headers", "X-Request-ID, Content-Disposition")

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Max-Age", "3600")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (c *CORS) isOriginAllowed(origin string) bool {
	for _, allowed := range c.allowedOrigins {
		if allowed == origin {
			return true
		}
	}
	return false
}
