package middleware

import "net/http"

// CacheControl sets Cache-Control on GET and HEAD responses.
func CacheControl(directive string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				w.Header().Set("Cache-Control", directive)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NoStore marks responses as session-specific so shared caches never keep them.
func NoStore() func(http.Handler) http.Handler {
	return CacheControl("no-store")
}
