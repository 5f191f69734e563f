package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

const sweepBatch = 50

// StaleOrderLister находит заказы, застрявшие в pending.
type StaleOrderLister interface {
	ListStalePendingOrderNumbers(ctx context.Context, before time.Time, limit int) ([]string, error)
}

// Verifier сверяет заказ с провайдером.
type Verifier interface {
	Verify(ctx context.Context, orderNumber string) (*models.PaymentVerification, error)
}

// Sweeper периодически сверяет заказы, по которым клиент так и не запросил проверку оплаты.
type Sweeper struct {
	log      *slog.Logger
	repo     StaleOrderLister
	verifier Verifier
	interval time.Duration
	age      time.Duration
	now      func() time.Time
}

// NewSweeper создаёт Sweeper. Заказ считается застрявшим, если создан раньше чем age назад.
func NewSweeper(log *slog.Logger, repo StaleOrderLister, verifier Verifier, interval, age time.Duration) *Sweeper {
	return &Sweeper{
		log:      log,
		repo:     repo,
		verifier: verifier,
		interval: interval,
		age:      age,
		now:      time.Now,
	}
}

// Run выполняет проход сразу и затем каждые interval до отмены ctx.
func (s *Sweeper) Run(ctx context.Context) {
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep сверяет одну пачку застрявших заказов и возвращает число оплаченных среди них.
func (s *Sweeper) Sweep(ctx context.Context) int {
	const op = "payment.Sweeper.Sweep"
	log := s.log.With(sl.Op(op))

	numbers, err := s.repo.ListStalePendingOrderNumbers(ctx, s.now().Add(-s.age), sweepBatch)
	if err != nil {
		log.Error("failed to find stale pending orders", sl.Err(err))
		return 0
	}
	if len(numbers) == 0 {
		log.Debug("no stale pending orders found")
		return 0
	}
	log.Info("found stale pending orders", slog.Int("count", len(numbers)))

	paid := 0
	for _, number := range numbers {
		if ctx.Err() != nil {
			break
		}
		res, err := s.verifier.Verify(ctx, number)
		if err != nil {
			log.Warn("failed to verify stale order", slog.String("order_number", number), sl.Err(err))
			continue
		}
		if res.IsPaid {
			paid++
		}
	}
	log.Info("stale order sweep finished", slog.Int("paid", paid))
	return paid
}
