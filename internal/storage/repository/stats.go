package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/codevault/internal/models"
)

// GetStats собирает сводку: выручка считается только по завершённым заказам.
func (s *Storage) GetStats(ctx context.Context) (*models.Stats, error) {
	const op = "storage.GetStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var st models.Stats
	err := s.DB.QueryRowContext(ctx, `SELECT
			  (SELECT COUNT(*) FROM users),
			  (SELECT COUNT(*) FROM products),
			  (SELECT COUNT(*) FROM orders),
			  (SELECT COALESCE(SUM(amount), 0)::BIGINT FROM orders WHERE status = 'completed')`).
		Scan(&st.TotalUsers, &st.TotalProducts, &st.TotalOrders, &st.TotalRevenue)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &st, nil
}
