// Package paymentverify сверяет заказ с провайдером и завершает оплаченные локальные заказы.
package paymentverify

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/handlers/payment/paymenterr"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Request номер заказа, выданный при создании.
type Request struct {
	OrderID string `json:"order_id"`
}

// Service сверяет заказ.
type Service interface {
	Verify(ctx context.Context, orderNumber string) (*models.PaymentVerification, error)
}

// Handler обрабатывает POST /api/payments/verify.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Проверить оплату
// @Description Читает заказ у Cashfree; при статусе PAID переводит локальные заказы в completed
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body Request true "Номер заказа"
// @Success 200 {object} response.Response{data=models.PaymentVerification}
// @Failure 400 {object} response.ErrorResponse "Нет номера заказа или отказ провайдера"
// @Failure 401 {object} response.ErrorResponse
// @Router /payments/verify [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.verify"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	res, err := h.service.Verify(r.Context(), req.OrderID)
	if err != nil {
		paymenterr.Write(w, r, log, err)
		return
	}

	log.Info("payment verified",
		slog.String("order_id", res.OrderID),
		slog.String("order_status", res.OrderStatus),
		slog.Bool("is_paid", res.IsPaid))
	response.JSON(w, r, http.StatusOK, response.OK(res))
}
