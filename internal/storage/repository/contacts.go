package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/codevault/internal/models"
)

const contactColumns = `id, name, email, subject, message, is_read, created_at`

func scanContact(row scanner) (*models.ContactMessage, error) {
	var m models.ContactMessage
	if err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateContactMessage сохраняет обращение.
func (s *Storage) CreateContactMessage(ctx context.Context, m models.ContactMessage) (*models.ContactMessage, error) {
	const op = "storage.CreateContactMessage"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	created, err := scanContact(s.DB.QueryRowContext(ctx, `INSERT INTO contact_messages (name, email, subject, message)
			  VALUES ($1, $2, $3, $4)
			  RETURNING `+contactColumns, m.Name, m.Email, m.Subject, m.Message))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// ListContactMessages возвращает все обращения, новые первыми.
func (s *Storage) ListContactMessages(ctx context.Context) ([]*models.ContactMessage, error) {
	const op = "storage.ListContactMessages"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+contactColumns+` FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.ContactMessage, 0)
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// MarkContactMessageRead помечает обращение прочитанным.
func (s *Storage) MarkContactMessageRead(ctx context.Context, id int64) (*models.ContactMessage, error) {
	const op = "storage.MarkContactMessageRead"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	m, err := scanContact(s.DB.QueryRowContext(ctx,
		`UPDATE contact_messages SET is_read = TRUE WHERE id = $1 RETURNING `+contactColumns, id))
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return m, nil
}
