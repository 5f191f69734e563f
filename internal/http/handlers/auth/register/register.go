// Package register реализует HTTP-обработчик регистрации пользователя.
//
// Handler декодирует и валидирует тело запроса, создаёт пользователя через
// сервис аутентификации и сразу возвращает токен доступа.
package register

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
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/auth"
)

// Request входные данные для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"max=100"`
	Role     string `json:"role"`
}

// Service описывает регистрацию в сервисе аутентификации.
type Service interface {
	Register(ctx context.Context, in auth.RegisterInput) (*auth.Session, error)
}

// Handler обрабатывает запросы на регистрацию.
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
// @Summary Регистрация пользователя
// @Description Создает учётную запись и возвращает токен доступа
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Данные регистрации"
// @Success 201 {object} response.AuthResponse
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или пользователь уже существует"
// @Failure 429 {object} response.ErrorResponse "Слишком много запросов"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

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
			log.Info("validation failed", sl.Err(err))
			response.JSON(w, r, http.StatusBadRequest, response.ValidationError(verrs))
			return
		}
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	session, err := h.service.Register(r.Context(), auth.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserExists):
			log.Info("user already registered")
			response.JSON(w, r, http.StatusBadRequest, response.Error("User already registered"))
		case errors.Is(err, auth.ErrInvalidRole):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Invalid role"))
		case errors.Is(err, auth.ErrWeakPassword):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Password must be at least 6 characters"))
		default:
			log.Error("registration failed", sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}

	log.Info("user registered", slog.String("user_id", session.User.ID))
	response.JSON(w, r, http.StatusCreated, response.AuthResponse{
		Success:     true,
		Message:     "Account created successfully",
		AccessToken: session.AccessToken,
		User: models.UserSummary{
			ID:       session.User.ID,
			Email:    session.User.Email,
			FullName: session.User.FullName,
			Role:     session.User.Role,
		},
	})
}
