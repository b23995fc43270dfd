package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5/request"

	"github.com/samandr77/microservices/condo/internal/entity"
	"github.com/samandr77/microservices/condo/pkg/logger"
	"github.com/samandr77/microservices/condo/pkg/security"
)

const (
	headerRequestID = "X-Request-Id"
	headerAPIKey    = "X-Api-Key"
)

type Authenticator interface {
	Authenticate(token string) (entity.Session, error)
}

type Middleware struct {
	auth   Authenticator
	apiKey *security.APIKey
}

func NewMiddleware(auth Authenticator, apiKey *security.APIKey) *Middleware {
	return &Middleware{
		auth:   auth,
		apiKey: apiKey,
	}
}

func (m *Middleware) Cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Origin, Accept, User-Agent, Cache-Control, X-Request-Id")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Log tags the request with an id, reusing the caller's X-Request-Id when present.
func (m *Middleware) Log(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(headerRequestID)
		if requestID == "" {
			requestID = uuid.Must(uuid.NewV4()).String()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set(headerRequestID, requestID)

		slog.InfoContext(ctx, "incoming request",
			"method", r.Method, "url", r.URL.Path, "user_agent", r.UserAgent(), "user_ip", r.RemoteAddr)

		next.ServeHTTP(w, r.WithContext(ctx))

		slog.InfoContext(ctx, "request completed", "duration_ms", time.Since(start).Milliseconds())
	})
}

func (m *Middleware) Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func(ctx context.Context) {
			err := recover()
			if err != nil {
				slog.ErrorContext(ctx, "panic", "error", err, "stack", string(debug.Stack()))
				SendErr(ctx, w, http.StatusInternalServerError, errors.New("panic"), entity.ErrMsgInternal)
			}
		}(r.Context())
		next.ServeHTTP(w, r)
	})
}

// BearerAuth resolves the session from the Authorization header. The token is
// kept on the session and forwarded to the backend.
func (m *Middleware) BearerAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token, err := request.BearerExtractor{}.ExtractToken(r)
		if err != nil {
			SendErr(ctx, w, http.StatusUnauthorized, entity.ErrNoAuthToken, entity.ErrMsgUnauthorized)
			return
		}

		sess, err := m.auth.Authenticate(token)
		if err != nil {
			SendErr(ctx, w, http.StatusUnauthorized, err, entity.ErrMsgUnauthorized)
			return
		}

		ctx = logger.WithUserID(ctx, sess.UserID)
		ctx = entity.CtxWithSession(ctx, sess)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) APIKeyAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if m.apiKey.Enabled() {
			key := r.Header.Get(headerAPIKey)
			if key == "" {
				SendErr(ctx, w, http.StatusUnauthorized, entity.ErrUnauthenticated, entity.ErrMsgMissingAPIKey)
				return
			}

			if !m.apiKey.Verify(key) {
				SendErr(ctx, w, http.StatusUnauthorized, entity.ErrUnauthenticated, entity.ErrMsgInvalidAPIKey)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}
