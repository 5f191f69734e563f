// Package middlewarectx содержит HTTP middleware аутентификации, проверки роли
// и ограничения частоты запросов.
//
// JWTMiddleware проверяет токен из заголовка Authorization, заново читает
// пользователя и кладёт его личность в контекст запроса. RequireAdmin
// пропускает дальше только администраторов.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/jwt"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/auth"
)

const bearerPrefix = "Bearer "

// Authenticator разрешает токен в личность пользователя.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.Identity, *jwt.CustomClaims, error)
}

// JWTMiddleware возвращает HTTP middleware, который требует действительный токен.
//
// Без заголовка вида "Bearer <token>" запрос отклоняется с 401 до обращения к хранилищу.
func JWTMiddleware(authSvc Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.JWTMiddleware"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				log.Debug("missing or invalid authorization header")
				response.JSON(w, r, http.StatusUnauthorized, response.Error("No token provided"))
				return
			}

			identity, claims, err := authSvc.Authenticate(r.Context(), strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					log.Debug("invalid or expired token")
					response.JSON(w, r, http.StatusUnauthorized, response.Error("Invalid or expired token"))
					return
				}
				log.Error("authentication failed", sl.Err(err))
				response.JSON(w, r, http.StatusUnauthorized, response.Error("Authentication failed"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity, claims)))
		})
	}
}

// OptionalJWTMiddleware кладёт личность в контекст, если токен есть и действителен.
// Запрос не отклоняется никогда.
func OptionalJWTMiddleware(authSvc Authenticator, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				next.ServeHTTP(w, r)
				return
			}
			identity, claims, err := authSvc.Authenticate(r.Context(), strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if !errors.Is(err, auth.ErrInvalidToken) {
					log.Warn("optional authentication failed",
						slog.String("request_id", middleware.GetReqID(r.Context())), sl.Err(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), *identity, claims)))
		})
	}
}

// RequireAdmin пропускает запрос только для роли admin. Ставится после JWTMiddleware.
func RequireAdmin(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFrom(r.Context())
			if !ok || !identity.IsAdmin() {
				log.Warn("admin access denied",
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("user_id", identity.ID))
				response.JSON(w, r, http.StatusForbidden, response.Error("Admin access required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
