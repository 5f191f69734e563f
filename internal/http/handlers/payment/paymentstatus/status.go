// Package paymentstatus отдаёт состояние заказа у провайдера без изменения локальных данных.
package paymentstatus

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/handlers/payment/paymenterr"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service читает состояние заказа.
type Service interface {
	Status(ctx context.Context, orderNumber string) (*models.PaymentStatus, error)
}

// Handler обрабатывает GET /api/payments/status/{orderId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статус оплаты
// @Tags Payments
// @Produce json
// @Param orderId path string true "Номер заказа"
// @Success 200 {object} response.Response{data=models.PaymentStatus}
// @Failure 400 {object} response.ErrorResponse
// @Router /payments/status/{orderId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.status"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.Status(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		paymenterr.Write(w, r, log, err)
		return
	}
	response.JSON(w, r, http.StatusOK, response.OK(res))
}
