package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig controls which external page shells may fetch storefront
// fragments and state from another origin.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins; "*" allows any origin.
	AllowedOrigins []string
	// AllowedMethods defaults to GET, HEAD and OPTIONS.
	AllowedMethods []string
	// AllowedHeaders defaults to Accept, Content-Type and X-Correlation-ID.
	AllowedHeaders []string
	// ExposedHeaders lists response headers readable by the caller.
	ExposedHeaders []string
	// MaxAge is the preflight cache lifetime in seconds; defaults to 3600.
	MaxAge int
	// AllowCredentials lets the caller send the session cookie. It is ignored
	// for wildcard origins.
	AllowCredentials bool
}

// CORS returns middleware answering preflights and decorating responses.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	if len(cfg.AllowedMethods) == 0 {
		cfg.AllowedMethods = []string{http.MethodGet, http.MethodHead, http.MethodOptions}
	}
	if len(cfg.AllowedHeaders) == 0 {
		cfg.AllowedHeaders = []string{"Accept", "Content-Type", CorrelationHeader}
	}
	if cfg.MaxAge == 0 {
		cfg.MaxAge = 3600
	}

	wildcard := false
	origins := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		if o == "*" {
			wildcard = true
		}
		origins[o] = struct{}{}
	}

	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			allowed := false

			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
				allowed = true
			case origin != "":
				if _, ok := origins[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
					allowed = true
					if cfg.AllowCredentials {
						w.Header().Set("Access-Control-Allow-Credentials", "true")
					}
				}
			}

			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				if exposed != "" {
					w.Header().Set("Access-Control-Expose-Headers", exposed)
				}
				w.Header().Set("Access-Control-Max-Age", maxAge)
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
