// Package markread отмечает обращение прочитанным.
package markread

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/contact"
)

// Service отмечает обращение.
type Service interface {
	MarkRead(ctx context.Context, id int64) (*models.ContactMessage, error)
}

// Handler обрабатывает PATCH /api/contact/{id}/read.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отметить обращение прочитанным
// @Tags Contact
// @Produce json
// @Param id path int true "Id обращения"
// @Success 200 {object} response.Response{data=models.ContactMessage}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /contact/{id}/read [patch]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.contact.markread"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.JSON(w, r, http.StatusBadRequest, response.Error("Invalid message id"))
		return
	}

	msg, err := h.service.MarkRead(r.Context(), id)
	if err != nil {
		if errors.Is(err, contact.ErrNotFound) {
			response.JSON(w, r, http.StatusNotFound, response.Error("Message not found"))
			return
		}
		log.Error("failed to mark message read", slog.Int64("id", id), sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(msg))
}
