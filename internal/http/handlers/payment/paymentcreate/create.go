// Package paymentcreate обрабатывает создание заказа на оплату у платёжного провайдера.
package paymentcreate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/handlers/payment/paymenterr"
	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/payment"
)

// Request представляет запрос на создание заказа на оплату.
// Amount необязателен: без него берётся цена товара.
type Request struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Amount      int64  `json:"amount"`
}

// Service определяет интерфейс сценария оплаты.
type Service interface {
	Initiate(ctx context.Context, identity models.Identity, in payment.InitiateInput) (*models.PaymentOrder, error)
}

// Handler обрабатывает запросы на создание заказа на оплату.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать заказ на оплату
// @Description Регистрирует заказ у Cashfree и сохраняет локальный заказ в статусе pending
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body Request true "Товар и сумма"
// @Success 200 {object} response.Response{data=models.PaymentOrder}
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или отказ провайдера"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse
// @Router /payments/create-order [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	identity, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		log.Error("identity not found in context")
		response.JSON(w, r, http.StatusUnauthorized, response.Error("unauthorized"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	order, err := h.service.Initiate(r.Context(), identity, payment.InitiateInput{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Amount:      req.Amount,
	})
	if err != nil {
		paymenterr.Write(w, r, log, err)
		return
	}

	log.Info("payment order created",
		slog.String("order_id", order.OrderID),
		slog.Int64("amount", order.OrderAmount))
	response.JSON(w, r, http.StatusOK, response.OK(order))
}
