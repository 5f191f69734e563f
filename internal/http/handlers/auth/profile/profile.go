// Package profile реализует изменение собственного профиля: имя, телефон и аватар.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/auth"
)

// Request изменяемые поля профиля. Отсутствующее поле не меняется.
type Request struct {
	FullName  *string `json:"full_name" validate:"omitempty,max=100"`
	Phone     *string `json:"phone" validate:"omitempty,max=20"`
	AvatarURL *string `json:"avatar_url" validate:"omitempty,max=500"`
}

// Service сохраняет профиль.
type Service interface {
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
}

// Handler обрабатывает PATCH /api/auth/profile.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Обновить профиль
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Поля профиля"
// @Success 200 {object} response.Response{data=models.Identity}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/profile [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.JSON(w, r, http.StatusBadRequest, response.ValidationError(verrs))
			return
		}
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), identity.ID, models.ProfileUpdate{
		FullName:  req.FullName,
		Phone:     req.Phone,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("User not found"))
			return
		}
		log.Error("failed to update profile", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}

	log.Info("profile updated", slog.String("user_id", identity.ID))
	response.JSON(w, r, http.StatusOK, response.Response{
		Success: true,
		Data:    models.NewIdentity(user),
		Message: "Profile updated successfully",
	})
}
