// Package login реализует HTTP-обработчик входа по email и паролю.
//
// При успешной проверке возвращается токен доступа и нормализованный пользователь.
// Причина отказа (неизвестный email или неверный пароль) клиенту не раскрывается.
package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/services/auth"
)

// Request структура входных данных для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Service описывает вход в сервисе аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

// Handler обрабатывает HTTP-запросы на вход.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет email и пароль, возвращает токен доступа
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Учётные данные"
// @Success 200 {object} response.AuthResponse
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Failure 401 {object} response.ErrorResponse "Неверный email или пароль"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Router /auth/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

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

	session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			log.Info("invalid login credentials")
			response.JSON(w, r, http.StatusUnauthorized, response.Error("Invalid login credentials"))
			return
		}
		log.Error("login failed", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}

	log.Info("user logged in", slog.String("user_id", session.User.ID))
	response.JSON(w, r, http.StatusOK, response.AuthResponse{
		Success:     true,
		Message:     "Login successful",
		AccessToken: session.AccessToken,
		User:        session.User,
	})
}
