package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/storefront/pkg/logger"
)

// SessionCookie names the cookie that scopes cart and wishlist snapshots.
const SessionCookie = "shop_session-id"

// Session resolves the visitor session from its cookie, issuing a new UUID
// when the cookie is absent or not a UUID. The ID is stored in the request
// context for the handlers, the rate limiter and the request logger.
func Session(secure bool, maxAge time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := ""
			if c, err := r.Cookie(SessionCookie); err == nil {
				if parsed, err := uuid.Parse(c.Value); err == nil {
					id = parsed.String()
				}
			}

			if id == "" {
				id = uuid.NewString()
				cookie := &http.Cookie{
					Name:     SessionCookie,
					Value:    id,
					Path:     "/",
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				}
				if maxAge > 0 {
					cookie.MaxAge = int(maxAge.Seconds())
				}
				http.SetCookie(w, cookie)
			}

			ctx := logger.WithSessionID(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionID returns the session resolved by Session.
func sessionID(r *http.Request) string {
	return logger.SessionIDFromContext(r.Context())
}

// safeReturnTo accepts only local absolute paths so a form cannot redirect
// the visitor off-site. Anything else yields fallback.
func safeReturnTo(raw, fallback string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return fallback
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return u.RequestURI()
}
