// Package contact содержит обработку обращений через форму обратной связи.
package contact

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

// ErrNotFound обращение не найдено.
var ErrNotFound = errors.New("message not found")

// Repository хранилище обращений.
type Repository interface {
	CreateContactMessage(ctx context.Context, m models.ContactMessage) (*models.ContactMessage, error)
	ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id int64) (*models.ContactMessage, error)
}

// Service обращения пользователей.
type Service struct {
	log  *slog.Logger
	repo Repository
}

// New создаёт сервис обращений.
func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// Submit сохраняет обращение.
func (s *Service) Submit(ctx context.Context, m models.ContactMessage) (*models.ContactMessage, error) {
	const op = "contact.Submit"
	m.Email = strings.TrimSpace(m.Email)
	m.IsRead = false
	saved, err := s.repo.CreateContactMessage(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("contact message received", slog.Int64("id", saved.ID))
	return saved, nil
}

// List возвращает все обращения, новые первыми.
func (s *Service) List(ctx context.Context) ([]*models.ContactMessage, error) {
	const op = "contact.List"
	msgs, err := s.repo.ListContactMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return msgs, nil
}

// MarkRead отмечает обращение прочитанным.
func (s *Service) MarkRead(ctx context.Context, id int64) (*models.ContactMessage, error) {
	const op = "contact.MarkRead"
	m, err := s.repo.MarkContactMessageRead(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return m, nil
}
