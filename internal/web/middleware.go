package web

import (
	"context"
	"net/http"

	"github.com/erazemk/heartshare/internal/visitor"
)

type webContextKey string

const claimedKey webContextKey = "claimed"

// VisitorMiddleware reads the visitor's claimed placeholder ids from the
// signed cookie and adds them to the request context. A tampered cookie is
// cleared and reads as an empty set.
func VisitorMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cookie, err := r.Cookie(visitor.CookieName); err == nil && cookie.Value != "" {
				if _, err := visitor.Decode(secret, cookie.Value); err != nil {
					clearVisitorCookie(w)
				}
			}

			ctx := context.WithValue(r.Context(), claimedKey, visitor.Claimed(r, secret))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func clearVisitorCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     visitor.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClaimedPlaceholders returns the claimed placeholder ids from web context.
func ClaimedPlaceholders(ctx context.Context) []string {
	ids, _ := ctx.Value(claimedKey).([]string)
	return ids
}
