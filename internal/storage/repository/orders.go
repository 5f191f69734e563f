package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/codevault/internal/models"
)

const orderSelect = `SELECT o.id, o.user_id, o.product_id, o.product_name, o.order_number, o.amount,
	    o.status, o.payment_method, o.payment_id, o.created_at, o.updated_at,
	    p.name, p.slug, p.image_url, p.price,
	    u.full_name, u.email, u.avatar_url
	FROM orders o
	LEFT JOIN products p ON p.id = o.product_id
	LEFT JOIN users u ON u.id = o.user_id`

// scanOrder читает заказ вместе с кратким описанием товара и профилем владельца.
func scanOrder(row scanner, withProfile bool) (*models.Order, error) {
	var (
		o            models.Order
		productID    sql.NullInt64
		paymentID    sql.NullString
		pName, pSlug sql.NullString
		pImage       sql.NullString
		pPrice       sql.NullInt64
		uName, uMail sql.NullString
		uAvatar      sql.NullString
	)
	if err := row.Scan(&o.ID, &o.UserID, &productID, &o.ProductName, &o.OrderNumber, &o.Amount,
		&o.Status, &o.PaymentMethod, &paymentID, &o.CreatedAt, &o.UpdatedAt,
		&pName, &pSlug, &pImage, &pPrice,
		&uName, &uMail, &uAvatar); err != nil {
		return nil, err
	}
	o.ProductID = nullInt(productID)
	o.PaymentID = nullString(paymentID)
	if pName.Valid {
		o.Product = &models.ProductSummary{
			Name:     pName.String,
			Slug:     pSlug.String,
			ImageURL: nullString(pImage),
			Price:    pPrice.Int64,
		}
	}
	if withProfile && uMail.Valid {
		o.Profile = &models.ProfileSummary{
			FullName:  uName.String,
			Email:     uMail.String,
			AvatarURL: nullString(uAvatar),
		}
	}
	return &o, nil
}

// CreateOrder сохраняет заказ. Повтор order_number даёт ErrAlreadyExists.
func (s *Storage) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	query := `INSERT INTO orders (id, user_id, product_id, product_name, order_number, amount,
			      status, payment_method, payment_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING created_at, updated_at`
	err := s.DB.QueryRowContext(ctx, query,
		o.ID, o.UserID, o.ProductID, o.ProductName, o.OrderNumber, o.Amount,
		o.Status, o.PaymentMethod, o.PaymentID).Scan(&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		case isForeignKeyViolation(err):
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &o, nil
}

// InsertOrderIfMissing сохраняет заказ, если номер ещё не занят.
// Возвращает true, если запись была создана.
func (s *Storage) InsertOrderIfMissing(ctx context.Context, o models.Order) (bool, error) {
	const op = "storage.InsertOrderIfMissing"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	res, err := s.DB.ExecContext(ctx, `INSERT INTO orders (id, user_id, product_id, product_name,
			      order_number, amount, status, payment_method, payment_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  ON CONFLICT (order_number) DO NOTHING`,
		o.ID, o.UserID, o.ProductID, o.ProductName, o.OrderNumber, o.Amount,
		o.Status, o.PaymentMethod, o.PaymentID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

// OrderNumberExists проверяет, занят ли номер заказа.
func (s *Storage) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	const op = "storage.OrderNumberExists"
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM orders WHERE order_number = $1)`, orderNumber).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CompleteOrders переводит все заказы с номером в completed.
// Уже записанный у завершённого заказа платёжный идентификатор не перезаписывается,
// поэтому повторная сверка не меняет ссылку на платёж.
func (s *Storage) CompleteOrders(ctx context.Context, orderNumber, paymentID string) (int64, error) {
	const op = "storage.CompleteOrders"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE orders
			  SET payment_id = CASE
			          WHEN status = 'completed' AND payment_id IS NOT NULL AND payment_id <> '' THEN payment_id
			          ELSE $2
			      END,
			      status = 'completed',
			      updated_at = NOW()
			  WHERE order_number = $1`, orderNumber, paymentID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// GetOrderByNumber возвращает заказ по внешнему номеру.
func (s *Storage) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	const op = "storage.GetOrderByNumber"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	o, err := scanOrder(s.DB.QueryRowContext(ctx,
		orderSelect+` WHERE o.order_number = $1 ORDER BY o.created_at LIMIT 1`, orderNumber), false)
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return o, nil
}

// GetOrderByID возвращает заказ по id.
func (s *Storage) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	const op = "storage.GetOrderByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	o, err := scanOrder(s.DB.QueryRowContext(ctx, orderSelect+` WHERE o.id = $1`, id), false)
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return o, nil
}

// ListOrdersByUser возвращает заказы пользователя, новые первыми.
func (s *Storage) ListOrdersByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	const op = "storage.ListOrdersByUser"
	if !validID(userID) {
		return []*models.Order{}, nil
	}
	return s.listOrders(ctx, op, orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC`, false, userID)
}

// ListAllOrders возвращает все заказы с профилями владельцев.
func (s *Storage) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	const op = "storage.ListAllOrders"
	return s.listOrders(ctx, op, orderSelect+` ORDER BY o.created_at DESC`, true)
}

func (s *Storage) listOrders(ctx context.Context, op, query string, withProfile bool, args ...any) ([]*models.Order, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows, withProfile)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListStalePendingOrderNumbers возвращает номера заказов, остающихся в pending дольше before.
func (s *Storage) ListStalePendingOrderNumbers(ctx context.Context, before time.Time, limit int) ([]string, error) {
	const op = "storage.ListStalePendingOrderNumbers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT order_number
			  FROM orders
			  WHERE status = 'pending' AND created_at < $1
			  GROUP BY order_number
			  ORDER BY MIN(created_at)
			  LIMIT $2`, before, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	numbers := make([]string, 0)
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		numbers = append(numbers, n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return numbers, nil
}
