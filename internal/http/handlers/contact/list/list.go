// Package list отдаёт администратору все обращения, новые первыми.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service описывает чтение обращений.
type Service interface {
	List(ctx context.Context) ([]*models.ContactMessage, error)
}

// Handler обрабатывает GET /api/contact.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Обращения
// @Tags Contact
// @Produce json
// @Success 200 {object} response.Response{data=[]models.ContactMessage}
// @Failure 403 {object} response.ErrorResponse
// @Router /contact [get]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.list"

	msgs, err := h.service.List(r.Context())
	if err != nil {
		h.log.Error("failed to list contact messages",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(msgs))
}
