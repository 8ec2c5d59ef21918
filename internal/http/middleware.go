package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront-crm/internal/auth"
	"github.com/rogerio-castellano/storefront-crm/internal/http/handlers"
	logx "github.com/rogerio-castellano/storefront-crm/pkg/logger"
)

type contextKey string

const (
	usernameKey = contextKey("username")
	roleKey     = contextKey("role")
)

func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, claims, err := auth.TokenClaims(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, "missing or invalid token", http.StatusUnauthorized)
			return
		}

		username, _ := claims["username"].(string)
		role, _ := claims["role"].(string)
		ctx := context.WithValue(r.Context(), usernameKey, username)
		ctx = context.WithValue(ctx, roleKey, role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole must run after AuthMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetRole(r) != role {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetUsername(r *http.Request) string {
	if val, ok := r.Context().Value(usernameKey).(string); ok {
		return val
	}
	return ""
}

func GetRole(r *http.Request) string {
	if val, ok := r.Context().Value(roleKey).(string); ok {
		return val
	}
	return ""
}

// CartSession binds the request to an anonymous cart session. A missing or
// malformed X-Cart-Session header gets a fresh id, echoed in the response.
func CartSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(handlers.SessionHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(handlers.SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(handlers.WithSessionID(r.Context(), id)))
	})
}

func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logx.Info().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("duration", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}
