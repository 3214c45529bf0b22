// Package session carries the authenticated user across requests in a cookie
// holding a signed token.
package session

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/auth"
	"github.com/Shynif/nuit-de-linfo-2025/internal/user/entity"
)

// ClaimUserID is the only claim the session trusts.
const ClaimUserID = "userId"

type contextKey string

const viewKey contextKey = "session-view"

// Loader resolves the user a token names. A nil view with a nil error means
// the user no longer exists.
type Loader interface {
	GetSessionView(ctx context.Context, id string) (*entity.SessionView, error)
}

type CookieConfig struct {
	Name   string
	Secure bool
}

type Manager struct {
	codec  *auth.Codec
	loader Loader
	cookie CookieConfig
	ttl    auth.TTL
	logger *zap.SugaredLogger
}

func NewManager(codec *auth.Codec, loader Loader, cookie CookieConfig, ttl auth.TTL, logger *zap.SugaredLogger) *Manager {
	if cookie.Name == "" {
		cookie.Name = "session"
	}
	return &Manager{codec: codec, loader: loader, cookie: cookie, ttl: ttl, logger: logger}
}

// Middleware attaches the session view when the cookie carries a valid token
// for an existing user. Every other case continues anonymously.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(m.cookie.Name)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, ok := m.codec.Verify(c.Value)
		if !ok {
			m.logger.Debugw("session token rejected", "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		id, ok := claims.String(ClaimUserID)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		view, err := m.loader.GetSessionView(r.Context(), id)
		if err != nil {
			m.logger.Warnw("session lookup failed", "user_id", id, "err", err)
			next.ServeHTTP(w, r)
			return
		}
		if view == nil {
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithView(r.Context(), view)))
	})
}

// Start issues a token for userID and sets it as the session cookie. The
// cookie carries both Max-Age and Expires.
func (m *Manager) Start(w http.ResponseWriter, userID string) error {
	token, err := m.codec.Issue(auth.Claims{ClaimUserID: userID}, m.ttl)
	if err != nil {
		return err
	}
	c := m.newCookie(token, int(m.ttl.Seconds()))
	c.Expires = time.Now().Add(m.ttl.Duration())
	http.SetCookie(w, c)
	return nil
}

// End expires the session cookie.
func (m *Manager) End(w http.ResponseWriter) {
	http.SetCookie(w, m.newCookie("", -1))
}

func (m *Manager) newCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     m.cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

// WithView returns ctx carrying view.
func WithView(ctx context.Context, view *entity.SessionView) context.Context {
	return context.WithValue(ctx, viewKey, view)
}

// FromContext returns the authenticated user, if any.
func FromContext(ctx context.Context) (*entity.SessionView, bool) {
	v, ok := ctx.Value(viewKey).(*entity.SessionView)
	return v, ok && v != nil
}

// RequireUser answers 401 for anonymous requests.
func RequireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := FromContext(r.Context()); !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}` + "\n"))
			return
		}
		next(w, r)
	}
}
