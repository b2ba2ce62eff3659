package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"slices"
	"strings"
	"time"

	"brewpos/internal/auth"
	"brewpos/internal/model"

	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// TokenParser verifies bearer tokens.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// StaffDirectory confirms that a token's subject may still use the tills.
type StaffDirectory interface {
	// Active fails with model.ErrUnauthorised for unknown or deactivated staff.
	Active(ctx context.Context, id string) (*model.Staff, error)
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *auth.Claims) context.Context {
	return auth.WithClaims(ctx, claims)
}

// ClaimsFromContext returns the claims stored by Authenticate.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	return auth.ClaimsFromContext(ctx)
}

// CashierFromContext returns the authenticated staff member's id, or "" when unauthenticated.
func CashierFromContext(ctx context.Context) string {
	if claims, ok := ClaimsFromContext(ctx); ok {
		return claims.CashierID()
	}
	return ""
}

// CORS allows browser tills served from origins to call the API.
func CORS(origins []string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// Authenticate requires a valid bearer token on every path except /health.
// With a staff directory the subject must be an active staff member, and the
// role stored for them replaces the one in the token.
func Authenticate(parser TokenParser, staff StaffDirectory, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, found := strings.CutPrefix(header, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				logger.Warn().Str("path", r.URL.Path).Msg("missing bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
				return
			}

			claims, err := parser.Parse(strings.TrimSpace(token))
			if err != nil {
				logger.Warn().Err(err).Str("path", r.URL.Path).Msg("rejected bearer token")
				writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
				return
			}

			if staff != nil {
				member, err := staff.Active(r.Context(), claims.CashierID())
				if err != nil {
					var de *model.DomainError
					if errors.As(err, &de) {
						logger.Warn().Str("cashier_id", claims.CashierID()).Str("path", r.URL.Path).Msg("token for unknown or inactive staff")
						writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
						return
					}
					logger.Error().Err(err).Str("cashier_id", claims.CashierID()).Msg("staff lookup failed")
					writeJSON(w, http.StatusServiceUnavailable, model.ErrorResponse{
						Error:   model.ErrCodePersistence,
						Message: "staff directory unavailable",
					})
					return
				}
				claims.Role = auth.Role(member.Role)
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireRole only lets staff holding one of roles through.
func RequireRole(logger zerolog.Logger, roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, model.ErrUnauthorised)
				return
			}

			if !slices.Contains(roles, claims.Role) {
				logger.Warn().
					Str("cashier_id", claims.CashierID()).
					Str("role", string(claims.Role)).
					Str("path", r.URL.Path).
					Msg("role not permitted")
				writeError(w, http.StatusForbidden, model.ErrForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs HTTP requests with timing information.
func Logging(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rw, r)

			event := logger.Info()
			if rw.statusCode >= http.StatusInternalServerError {
				event = logger.Error()
			}
			event.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", rw.statusCode).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Str("cashier_id", CashierFromContext(r.Context())).
				Msg("http request")
		})
	}
}

// Recovery recovers from panics and returns a 500 error.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error().
						Interface("panic", err).
						Str("method", r.Method).
						Str("path", r.URL.Path).
						Msg("panic recovered")

					writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
						Error:   model.ErrCodeInternalError,
						Message: "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeError(w http.ResponseWriter, status int, err *model.DomainError) {
	writeJSON(w, status, model.ErrorResponse{Error: err.Code, Message: err.Message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code.
func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
