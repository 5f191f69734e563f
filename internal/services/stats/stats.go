// Package stats считает сводные показатели для панели администратора.
package stats

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/codevault/internal/models"
)

// Repository источник показателей.
type Repository interface {
	GetStats(ctx context.Context) (*models.Stats, error)
	CountUsers(ctx context.Context) (int64, error)
}

// Service сводные показатели.
type Service struct {
	repo Repository
}

// New создаёт сервис.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get возвращает число пользователей, товаров, заказов и выручку по завершённым заказам.
func (s *Service) Get(ctx context.Context) (*models.Stats, error) {
	const op = "stats.Get"
	st, err := s.repo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}

// Ping проверяет доступность базы подсчётом пользователей.
func (s *Service) Ping(ctx context.Context) (int64, error) {
	const op = "stats.Ping"
	n, err := s.repo.CountUsers(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}
