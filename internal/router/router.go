package router

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Shynif/nuit-de-linfo-2025/internal/chat"
	"github.com/Shynif/nuit-de-linfo-2025/internal/leaderboard"
	"github.com/Shynif/nuit-de-linfo-2025/internal/question"
	"github.com/Shynif/nuit-de-linfo-2025/internal/session"
	"github.com/Shynif/nuit-de-linfo-2025/internal/setting"
	"github.com/Shynif/nuit-de-linfo-2025/internal/user"
	"github.com/Shynif/nuit-de-linfo-2025/pkg/utilities"
)

// RequestIDHeader carries the id assigned to each request.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestID returns the id RequestIDMiddleware assigned to the request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// RequestIDMiddleware keeps a caller-supplied X-Request-ID or assigns a
// snowflake id, echoes it on the response and stores it in the context.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > 64 {
				id = utilities.NewSnowflakeID()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter { return lrw.ResponseWriter }

// LoggingMiddleware logs each request with its request id. Server errors are
// logged at warn level, everything else at debug.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			log := logger.Debugw
			if status >= http.StatusInternalServerError {
				log = logger.Warnw
			}
			log("http request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer")

			// session responses must not be cached by intermediaries
			w.Header().Set("Cache-Control", "no-store")

			// Permissions policy (formerly Feature-Policy) - tighten common features
			// allow none for camera, microphone, geolocation by default
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			// the API only serves JSON
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			}

			// HSTS - instruct browsers to use HTTPS for future requests. Only set if request is over TLS.
			if r.TLS != nil {
				// 30 days by default
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Handlers groups the feature handlers mounted by RegisterRoutes.
type Handlers struct {
	Sessions    *session.Manager
	Users       *user.Handler
	Settings    *setting.Handler
	Leaderboard *leaderboard.Handler
	Questions   *question.Handler
	Chat        *chat.Handler
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// account
	mux.HandleFunc("POST /api/register", h.Users.Register)
	mux.HandleFunc("POST /api/login", h.Users.Login)
	mux.HandleFunc("POST /api/logout", h.Users.Logout)
	mux.HandleFunc("GET /api/me", session.RequireUser(h.Users.Me))
	mux.HandleFunc("POST /api/score", session.RequireUser(h.Users.Score))
	mux.HandleFunc("GET /api/settings", session.RequireUser(h.Settings.Get))
	mux.HandleFunc("POST /api/hide", session.RequireUser(h.Settings.Hide))

	// game
	mux.HandleFunc("GET /api/leaderboard", h.Leaderboard.List)
	mux.HandleFunc("GET /api/question", h.Questions.Random)
	mux.HandleFunc("GET /api/question/{id}", h.Questions.Get)
	mux.HandleFunc("GET /api/questions", h.Questions.Search)
	mux.HandleFunc("POST /api/chat", h.Chat.Chat)

	handler := h.Sessions.Middleware(mux)
	handler = SecurityHeadersMiddleware()(handler)
	handler = LoggingMiddleware(logger)(handler)
	return RequestIDMiddleware()(handler)
}
