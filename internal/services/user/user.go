// Package user содержит административные операции с учётными записями.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

var (
	// ErrNotFound пользователь не найден.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidRole неизвестная роль.
	ErrInvalidRole = errors.New("invalid role")
)

// Repository хранилище пользователей.
type Repository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Service управление пользователями.
type Service struct {
	log  *slog.Logger
	repo Repository
}

// New создаёт сервис.
func New(log *slog.Logger, repo Repository) *Service {
	return &Service{log: log, repo: repo}
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	const op = "user.List"
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Get возвращает пользователя по id.
func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	const op = "user.Get"
	u, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, mapErr(op, err)
	}
	return u, nil
}

// Update меняет профиль и роль. Email, пароль и id через эту операцию не меняются.
func (s *Service) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	const op = "user.Update"
	if upd.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*upd.Role))
		if !models.IsKnownRole(role) {
			return nil, ErrInvalidRole
		}
		upd.Role = &role
	}
	u, err := s.repo.UpdateUser(ctx, id, upd)
	if err != nil {
		return nil, mapErr(op, err)
	}
	if upd.Role != nil {
		s.log.Info("user role changed", slog.String("user_id", id), slog.String("role", u.Role))
	}
	return u, nil
}

// Delete удаляет пользователя вместе с его заказами и отзывами.
func (s *Service) Delete(ctx context.Context, id string) error {
	const op = "user.Delete"
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return mapErr(op, err)
	}
	s.log.Info("user deleted", slog.String("user_id", id))
	return nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
