// Package review содержит операции с отзывами о товарах.
package review

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

var (
	// ErrInvalidRating оценка вне допустимого диапазона.
	ErrInvalidRating = fmt.Errorf("rating must be between %d and %d", models.MinRating, models.MaxRating)
	// ErrProductNotFound товар не найден.
	ErrProductNotFound = errors.New("product not found")
)

// Repository хранилище отзывов.
type Repository interface {
	GetProduct(ctx context.Context, key string) (*models.Product, error)
	ListReviewsByProduct(ctx context.Context, productID int64) ([]*models.Review, error)
	CreateReview(ctx context.Context, r models.Review) (*models.Review, error)
}

// Service операции с отзывами.
type Service struct {
	repo Repository
}

// New создаёт сервис отзывов.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// List возвращает отзывы по числовому id товара или по его slug.
// Для неизвестного slug возвращается пустой список.
func (s *Service) List(ctx context.Context, productKey string) ([]*models.Review, error) {
	const op = "review.List"
	id, err := strconv.ParseInt(productKey, 10, 64)
	if err != nil {
		p, err := s.repo.GetProduct(ctx, productKey)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return []*models.Review{}, nil
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		id = p.ID
	}

	reviews, err := s.repo.ListReviewsByProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}

// Create добавляет отзыв от имени пользователя.
func (s *Service) Create(ctx context.Context, identity models.Identity, productID int64, rating int, comment string) (*models.Review, error) {
	const op = "review.Create"
	if rating < models.MinRating || rating > models.MaxRating {
		return nil, ErrInvalidRating
	}

	r, err := s.repo.CreateReview(ctx, models.Review{
		ProductID: productID,
		UserID:    identity.ID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	r.Profile = &models.ProfileSummary{FullName: identity.FullName, AvatarURL: identity.AvatarURL}
	return r, nil
}
