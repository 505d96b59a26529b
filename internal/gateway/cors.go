package gateway

import (
	"net/http"
	"strings"
)

// readSafeMethods are the only verbs granted to cross-origin callers.
// Mutations go through the authenticated gateway, never through CORS.
const readSafeMethods = "GET, HEAD, OPTIONS"

// CORSPolicy is an origin allow-list applied to the API path prefix.
// Cross-origin requests are granted read-safe verbs only.
type CORSPolicy struct {
	AllowedOrigins []string
	APIPrefix      string
}

// Middleware wraps next with the policy. Requests outside the API prefix and
// same-origin requests pass through untouched.
func (p CORSPolicy) Middleware(next http.Handler) http.Handler {
	prefix := p.APIPrefix
	if prefix == "" {
		prefix = "/api/"
	}
	allowed := make(map[string]struct{}, len(p.AllowedOrigins))
	for _, origin := range p.AllowedOrigins {
		allowed[origin] = struct{}{}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" || !strings.HasPrefix(r.URL.Path, prefix) {
			next.ServeHTTP(w, r)
			return
		}
		if _, ok := allowed[origin]; !ok {
			// Unlisted origins get no CORS grant; the browser enforces the
			// refusal.
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			requested := r.Header.Get("Access-Control-Request-Method")
			if !readSafe(requested) {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Methods", readSafeMethods)
			w.Header().Set("Access-Control-Max-Age", "600")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		if !readSafe(r.Method) {
			http.Error(w, "cross-origin mutations are not permitted", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func readSafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}
