package web

import (
	"context"
	"net/http"

	"bizcards/internal/session"
)

// CookieName holds the session id in the browser.
const CookieName = "bizcards_session"

type ctxKey struct{}

// WithSession attaches the caller's session to the request, creating one
// (and its cookie) when the cookie is missing or expired. The cookie has no
// Max-Age: it ends with the browser, and idle expiry is the Manager's.
func WithSession(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var s *session.Session
			if c, err := r.Cookie(CookieName); err == nil {
				s, _ = m.Get(r.Context(), c.Value)
			}
			if s == nil {
				s = m.Create()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    s.ID,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, s)))
		})
	}
}

// FromContext returns the session set by WithSession.
func FromContext(ctx context.Context) *session.Session {
	s, _ := ctx.Value(ctxKey{}).(*session.Session)
	return s
}

// SessionOf resolves the live session named by the request cookie. It is
// used by the notification socket, which never creates sessions.
func SessionOf(m *session.Manager) func(*http.Request) (string, bool) {
	return func(r *http.Request) (string, bool) {
		c, err := r.Cookie(CookieName)
		if err != nil || !m.Exists(c.Value) {
			return "", false
		}
		return c.Value, true
	}
}
