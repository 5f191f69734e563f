// Package password реализует хеширование и проверку паролей пользователей.
package password

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// Cost стоимость bcrypt для новых хэшей.
	Cost = 10
	// MinLength минимальная длина нового пароля.
	MinLength = 6
)

// ErrTooShort возвращается, если новый пароль короче MinLength.
var ErrTooShort = fmt.Errorf("password must be at least %d characters", MinLength)

// ErrMismatch возвращается, если пароль не соответствует хэшу.
var ErrMismatch = errors.New("password does not match")

// CheckStrength проверяет требования к новому паролю.
func CheckStrength(password string) error {
	if utf8.RuneCountInString(password) < MinLength {
		return ErrTooShort
	}
	return nil
}

// GetHash возвращает bcrypt-хэш пароля для хранения в базе.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash сравнивает хэш с введённым паролем.
// При несовпадении возвращает ErrMismatch, при повреждённом хэше исходную ошибку.
func CompareHash(hash, password string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
