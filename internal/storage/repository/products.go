package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/codevault/internal/models"
)

const productColumns = `id, slug, name, description, short_description, price, original_price, category,
	tech_stack, features, image_url, demo_url, is_active, featured, created_at, updated_at`

func scanProduct(row scanner) (*models.Product, error) {
	var (
		p             models.Product
		originalPrice sql.NullInt64
		techStack     []byte
		features      []byte
		imageURL      sql.NullString
		demoURL       sql.NullString
	)
	if err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.ShortDescription, &p.Price,
		&originalPrice, &p.Category, &techStack, &features, &imageURL, &demoURL,
		&p.IsActive, &p.Featured, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.OriginalPrice = nullInt(originalPrice)
	p.ImageURL = nullString(imageURL)
	p.DemoURL = nullString(demoURL)
	if err := json.Unmarshal(techStack, &p.TechStack); err != nil {
		return nil, fmt.Errorf("decode tech_stack: %w", err)
	}
	if err := json.Unmarshal(features, &p.Features); err != nil {
		return nil, fmt.Errorf("decode features: %w", err)
	}
	return &p, nil
}

func encodeList(list []string) ([]byte, error) {
	if list == nil {
		list = []string{}
	}
	return json.Marshal(list)
}

// CreateProduct сохраняет товар. Занятый slug даёт ErrAlreadyExists.
func (s *Storage) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.CreateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	techStack, err := encodeList(p.TechStack)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	features, err := encodeList(p.Features)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO products (slug, name, description, short_description, price, original_price,
			      category, tech_stack, features, image_url, demo_url, is_active, featured)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8::jsonb, $9::jsonb, $10, $11, $12, $13)
			  RETURNING ` + productColumns
	created, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.Slug, p.Name, p.Description, p.ShortDescription, p.Price, p.OriginalPrice,
		p.Category, string(techStack), string(features), p.ImageURL, p.DemoURL, p.IsActive, p.Featured))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// GetProduct ищет товар по slug, а если key является числом и slug не найден, по id.
func (s *Storage) GetProduct(ctx context.Context, key string) (*models.Product, error) {
	const op = "storage.GetProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanProduct(s.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = $1`, key))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, convErr := strconv.ParseInt(key, 10, 64)
	if convErr != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return s.GetProductByID(ctx, id)
}

// GetProductByID возвращает товар по числовому id.
func (s *Storage) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	const op = "storage.GetProductByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	p, err := scanProduct(s.DB.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return p, nil
}

// ListProducts возвращает товары по фильтру: рекомендуемые первыми, затем новые.
func (s *Storage) ListProducts(ctx context.Context, f models.ProductFilter) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if !f.IncludeInactive {
		where = append(where, "is_active = TRUE")
	}
	if f.Category != "" {
		where = append(where, "category = "+arg(f.Category))
	}
	if f.Featured != nil {
		where = append(where, "featured = "+arg(*f.Featured))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR short_description ILIKE %[1]s)", p))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY featured DESC, created_at DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + arg(f.Limit)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProduct сохраняет все изменяемые поля товара.
func (s *Storage) UpdateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "storage.UpdateProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	techStack, err := encodeList(p.TechStack)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	features, err := encodeList(p.Features)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE products
			  SET slug = $2, name = $3, description = $4, short_description = $5, price = $6,
			      original_price = $7, category = $8, tech_stack = $9::jsonb, features = $10::jsonb,
			      image_url = $11, demo_url = $12, is_active = $13, featured = $14, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + productColumns
	updated, err := scanProduct(s.DB.QueryRowContext(ctx, query,
		p.ID, p.Slug, p.Name, p.Description, p.ShortDescription, p.Price, p.OriginalPrice, p.Category,
		string(techStack), string(features), p.ImageURL, p.DemoURL, p.IsActive, p.Featured))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, notFoundOr(op, err)
	}
	return updated, nil
}

// DeleteProduct удаляет товар. Заказы сохраняют снимок названия.
func (s *Storage) DeleteProduct(ctx context.Context, id int64) error {
	const op = "storage.DeleteProduct"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectAffected(op, res)
}
