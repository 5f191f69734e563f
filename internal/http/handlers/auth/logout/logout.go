// Package logout реализует HTTP-обработчик выхода: токен текущего запроса отзывается.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/jwt"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
)

// Service отзывает токен.
type Service interface {
	Logout(ctx context.Context, claims *jwt.CustomClaims) error
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/logout [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	claims, ok := middlewarectx.ClaimsFrom(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}
	if err := h.service.Logout(r.Context(), claims); err != nil {
		log.Error("failed to revoke token", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	log.Info("user logged out", slog.String("user_id", claims.UserID))
	response.JSON(w, r, http.StatusOK, response.Message("Logged out successfully"))
}
