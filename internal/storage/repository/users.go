package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/codevault/internal/models"
)

const userColumns = `id, email, password_hash, full_name, phone, avatar_url, role, created_at, updated_at`

func scanUser(row scanner) (*models.User, error) {
	var (
		u         models.User
		phone     sql.NullString
		avatarURL sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &phone, &avatarURL,
		&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Phone = nullString(phone)
	u.AvatarURL = nullString(avatarURL)
	return &u, nil
}

// CreateUser сохраняет нового пользователя. Занятый email даёт ErrAlreadyExists.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.Role == "" {
		user.Role = models.RoleCustomer
	}
	query := `INSERT INTO users (id, email, password_hash, full_name, phone, avatar_url, role)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Phone, user.AvatarURL, user.Role))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByID возвращает пользователя по id.
func (s *Storage) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUserByID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email без учёта регистра.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProfile меняет имя, телефон и аватар. Роль и email не затрагиваются.
func (s *Storage) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "storage.UpdateProfile"
	return s.updateUser(ctx, op, id, models.UserUpdate{
		FullName:  upd.FullName,
		Phone:     upd.Phone,
		AvatarURL: upd.AvatarURL,
	})
}

// UpdateUser административное изменение пользователя, включая роль.
func (s *Storage) UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	const op = "storage.UpdateUser"
	return s.updateUser(ctx, op, id, upd)
}

func (s *Storage) updateUser(ctx context.Context, op, id string, upd models.UserUpdate) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if !validID(id) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	query := `UPDATE users
			  SET full_name = COALESCE($2, full_name),
			      phone = COALESCE($3, phone),
			      avatar_url = COALESCE($4, avatar_url),
			      role = COALESCE($5, role),
			      updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id, upd.FullName, upd.Phone, upd.AvatarURL, upd.Role))
	if err != nil {
		return nil, notFoundOr(op, err)
	}
	return u, nil
}

// UpdatePassword сохраняет новый хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, passwordHash)
	if err != nil {
		return notFoundOr(op, err)
	}
	return expectAffected(op, res)
}

// DeleteUser удаляет пользователя; его заказы и отзывы удаляются каскадно.
func (s *Storage) DeleteUser(ctx context.Context, id string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if !validID(id) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return notFoundOr(op, err)
	}
	return expectAffected(op, res)
}

// CountUsers возвращает количество пользователей.
func (s *Storage) CountUsers(ctx context.Context) (int64, error) {
	const op = "storage.CountUsers"
	var n int64
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

func expectAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}
