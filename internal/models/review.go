package models

import "time"

// Допустимый диапазон оценки отзыва.
const (
	MinRating = 1
	MaxRating = 5
)

// Review отзыв о товаре. Отзывы только добавляются.
type Review struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	UserID    string          `json:"user_id"`
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"created_at"`
	Profile   *ProfileSummary `json:"profiles,omitempty"`
}
