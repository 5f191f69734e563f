// Package create оформляет заказ без платёжного провайдера: заказ сразу завершён.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/order"
)

// Request данные заказа. Amount по умолчанию берётся из цены товара.
type Request struct {
	ProductID     int64  `json:"product_id"`
	Amount        int64  `json:"amount"`
	PaymentMethod string `json:"payment_method"`
}

// Service создаёт заказ.
type Service interface {
	Create(ctx context.Context, identity models.Identity, in order.CreateInput) (*models.Order, error)
}

// Handler обрабатывает POST /api/orders.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Оформить заказ
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body Request true "Заказ"
// @Success 201 {object} response.Response{data=models.Order}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /orders [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"
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

	created, err := h.service.Create(r.Context(), identity, order.CreateInput{
		ProductID:     req.ProductID,
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		switch {
		case errors.Is(err, order.ErrProductRequired):
			response.JSON(w, r, http.StatusBadRequest, response.Error("product_id is required"))
		case errors.Is(err, order.ErrProductNotFound):
			response.JSON(w, r, http.StatusNotFound, response.Error("Product not found"))
		default:
			log.Error("failed to create order", sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}

	log.Info("order created", slog.String("order_id", created.ID), slog.String("user_id", identity.ID))
	response.JSON(w, r, http.StatusCreated, response.Response{
		Success: true,
		Data:    created,
		Message: "Order created successfully",
	})
}
