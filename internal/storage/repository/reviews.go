package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/codevault/internal/models"
)

// ListReviewsByProduct возвращает отзывы о товаре с профилями авторов, новые первыми.
func (s *Storage) ListReviewsByProduct(ctx context.Context, productID int64) ([]*models.Review, error) {
	const op = "storage.ListReviewsByProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT r.id, r.product_id, r.user_id, r.rating, r.comment, r.created_at,
			      u.full_name, u.email, u.avatar_url
			  FROM reviews r
			  JOIN users u ON u.id = r.user_id
			  WHERE r.product_id = $1
			  ORDER BY r.created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Review, 0)
	for rows.Next() {
		var (
			r        models.Review
			fullName string
			email    string
			avatar   sql.NullString
		)
		if err = rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.CreatedAt,
			&fullName, &email, &avatar); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if fullName == "" {
			fullName = models.EmailLocalPart(email)
		}
		r.Profile = &models.ProfileSummary{FullName: fullName, AvatarURL: nullString(avatar)}
		result = append(result, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateReview сохраняет отзыв. Несуществующий товар или автор дают ErrNotFound.
func (s *Storage) CreateReview(ctx context.Context, r models.Review) (*models.Review, error) {
	const op = "storage.CreateReview"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.DB.QueryRowContext(ctx, `INSERT INTO reviews (product_id, user_id, rating, comment)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id, created_at`,
		r.ProductID, r.UserID, r.Rating, r.Comment).Scan(&r.ID, &r.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}
