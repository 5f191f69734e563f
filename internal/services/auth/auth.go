// Package auth содержит логику регистрации, входа и проверки токенов доступа.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/magabrotheeeer/codevault/internal/lib/jwt"
	"github.com/magabrotheeeer/codevault/internal/lib/metrics"
	"github.com/magabrotheeeer/codevault/internal/lib/password"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

var (
	// ErrUserExists email уже зарегистрирован.
	ErrUserExists = errors.New("user already registered")
	// ErrInvalidCredentials неверная пара email и пароль.
	ErrInvalidCredentials = errors.New("invalid login credentials")
	// ErrInvalidRole роль недоступна при самостоятельной регистрации.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidToken токен не прошёл проверку, отозван или его владелец удалён.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUserNotFound пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrWrongPassword текущий пароль указан неверно.
	ErrWrongPassword = errors.New("current password is incorrect")
	// ErrWeakPassword новый пароль не удовлетворяет требованиям.
	ErrWeakPassword = password.ErrTooShort
)

// UserRepository хранилище пользователей.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
	UpdateUser(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

// Denylist список отозванных токенов.
type Denylist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Options настройки сервиса.
type Options struct {
	AllowedSignupRoles []string
	KeepTokenOnLogout  bool
}

// Service реализует Identity Guard: выпуск токенов и разрешение личности по токену.
type Service struct {
	log      *slog.Logger
	users    UserRepository
	jwtMaker jwt.Maker
	denylist Denylist
	metrics  *metrics.Metrics
	opts     Options
	now      func() time.Time
}

// New создает сервис аутентификации.
func New(log *slog.Logger, users UserRepository, jwtMaker jwt.Maker, denylist Denylist, m *metrics.Metrics, opts Options) *Service {
	if len(opts.AllowedSignupRoles) == 0 {
		opts.AllowedSignupRoles = []string{models.RoleCustomer}
	}
	return &Service{
		log:      log,
		users:    users,
		jwtMaker: jwtMaker,
		denylist: denylist,
		metrics:  m,
		opts:     opts,
		now:      time.Now,
	}
}

// RegisterInput данные регистрации.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// Session выданный токен и пользователь, которому он принадлежит.
type Session struct {
	AccessToken string
	User        models.Identity
}

// Register создает пользователя и сразу выдаёт ему токен.
//
// Роль admin через регистрацию не выдаётся никогда, остальные роли
// проверяются по списку разрешённых.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	const op = "auth.Register"

	role := models.RoleCustomer
	if in.Role != "" {
		r := strings.ToLower(strings.TrimSpace(in.Role))
		if r == models.RoleAdmin || !slices.Contains(s.opts.AllowedSignupRoles, r) {
			s.fail("invalid_role")
			return nil, ErrInvalidRole
		}
		role = r
	}

	email := normalizeEmail(in.Email)
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	fullName := strings.TrimSpace(in.FullName)
	if fullName == "" {
		fullName = models.EmailLocalPart(email)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Role:         role,
	})
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.issue(op, user)
}

// Login проверяет пароль и выдаёт токен.
// Отсутствующий пользователь и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*Session, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.fail("unknown_email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			s.fail("wrong_password")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.issue(op, user)
}

func (s *Service) issue(op string, user *models.User) (*Session, error) {
	identity := models.NewIdentity(user)
	token, err := s.jwtMaker.GenerateToken(identity.ID, identity.Email, identity.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{AccessToken: token, User: identity}, nil
}

// Authenticate проверяет токен, список отзыва и заново читает пользователя из хранилища.
// Любая причина отказа возвращается как ErrInvalidToken, кроме сбоев хранилища.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.Identity, *jwt.CustomClaims, error) {
	const op = "auth.Authenticate"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		s.fail("invalid_token")
		return nil, nil, ErrInvalidToken
	}

	if s.denylist != nil && claims.ID != "" {
		revoked, err := s.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", op, err)
		}
		if revoked {
			s.fail("revoked_token")
			return nil, nil, ErrInvalidToken
		}
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.fail("unknown_user")
			return nil, nil, ErrInvalidToken
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	identity := models.NewIdentity(user)
	return &identity, claims, nil
}

// Logout отзывает токен до конца его срока действия.
func (s *Service) Logout(ctx context.Context, claims *jwt.CustomClaims) error {
	const op = "auth.Logout"
	if s.opts.KeepTokenOnLogout || s.denylist == nil || claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.denylist.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateProfile меняет имя, телефон и аватар пользователя.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	const op = "auth.UpdateProfile"
	user, err := s.users.UpdateProfile(ctx, userID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

// ChangePassword меняет пароль после проверки текущего. Выданные токены остаются действительными.
func (s *Service) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	const op = "auth.ChangePassword"

	if err := password.CheckStrength(newPassword); err != nil {
		return ErrWeakPassword
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPassword); err != nil {
		if errors.Is(err, password.ErrMismatch) {
			return ErrWrongPassword
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, userID, hashed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ForgotPassword принимает запрос на сброс пароля. Наличие адреса в базе не раскрывается.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	const op = "auth.ForgotPassword"
	log := s.log.With(sl.Op(op))
	if _, err := s.users.GetUserByEmail(ctx, normalizeEmail(email)); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Error("failed to look up user", sl.Err(err))
		}
		return
	}
	// письмо не отправляется, ответ одинаков для известных и неизвестных адресов
	log.Info("password reset requested")
}

// EnsureAdmin создает администратора по умолчанию или повышает существующую учётную запись до admin.
func (s *Service) EnsureAdmin(ctx context.Context, email, rawPassword, fullName string, phone *string) error {
	const op = "auth.EnsureAdmin"
	email = normalizeEmail(email)
	if email == "" {
		return nil
	}
	log := s.log.With(sl.Op(op), slog.String("email", email))

	existing, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		role := models.RoleAdmin
		if _, err := s.users.UpdateUser(ctx, existing.ID, models.UserUpdate{Role: &role}); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		log.Info("existing user promoted to admin")
		return nil
	case !errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if fullName == "" {
		fullName = "Administrator"
	}
	_, err = s.users.CreateUser(ctx, models.User{
		Email:        email,
		PasswordHash: hashed,
		FullName:     fullName,
		Phone:        phone,
		Role:         models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log.Info("default admin created")
	return nil
}

func (s *Service) fail(reason string) {
	if s.metrics != nil {
		s.metrics.AuthFailures.WithLabelValues(reason).Inc()
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
