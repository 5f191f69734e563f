package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

// ReconcileRepository операции хранилища, которыми воркер восстанавливает заказы.
type ReconcileRepository interface {
	InsertOrderIfMissing(ctx context.Context, o models.Order) (bool, error)
	CompleteOrders(ctx context.Context, orderNumber, paymentID string) (int64, error)
}

// Reconciler обрабатывает события сверки из очереди.
type Reconciler struct {
	log  *slog.Logger
	repo ReconcileRepository
}

// NewReconciler создаёт обработчик событий сверки.
func NewReconciler(log *slog.Logger, repo ReconcileRepository) *Reconciler {
	return &Reconciler{log: log, repo: repo}
}

// Handle применяет одно событие. Повторная обработка того же события безопасна.
// Событие, которое невозможно применить, подтверждается и логируется.
func (r *Reconciler) Handle(ctx context.Context, body []byte) error {
	const op = "payment.Reconciler.Handle"
	log := r.log.With(sl.Op(op))

	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("malformed event dropped", sl.Err(err))
		return nil
	}
	log = log.With(slog.String("event", event.Type), slog.String("order_number", event.Order.OrderNumber))
	if event.Order.OrderNumber == "" {
		log.Error("event without order number dropped")
		return nil
	}

	switch event.Type {
	case models.EventOrderOrphaned:
		return r.restore(ctx, log, event.Order)
	case models.EventOrderCompletionFailed:
		return r.complete(ctx, log, event.Order)
	default:
		log.Warn("unknown event type dropped")
		return nil
	}
}

func (r *Reconciler) restore(ctx context.Context, log *slog.Logger, order models.Order) error {
	const op = "payment.Reconciler.restore"
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	created, err := r.repo.InsertOrderIfMissing(ctx, order)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Error("order owner no longer exists, event dropped", sl.Err(err))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if created {
		log.Info("orphaned order restored")
	} else {
		log.Info("order already present")
	}
	return nil
}

func (r *Reconciler) complete(ctx context.Context, log *slog.Logger, order models.Order) error {
	const op = "payment.Reconciler.complete"
	paymentID := ""
	if order.PaymentID != nil {
		paymentID = *order.PaymentID
	}
	n, err := r.repo.CompleteOrders(ctx, order.OrderNumber, paymentID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("completion re-applied", slog.Int64("rows", n))
	return nil
}
