// Package models содержит доменные сущности маркетплейса: пользователей,
// товары, заказы, отзывы, обращения и результаты платёжных операций.
package models

import (
	"strings"
	"time"
)

// Роли пользователей.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// IsKnownRole сообщает, поддерживается ли роль.
func IsKnownRole(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Phone        *string   `json:"phone"`
	AvatarURL    *string   `json:"avatar_url"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity нормализованное представление аутентифицированного пользователя,
// которое кладётся в контекст запроса.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Phone     *string   `json:"phone"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// IsAdmin сообщает, обладает ли пользователь правами администратора.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// EmailLocalPart возвращает часть адреса до символа @.
func EmailLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// NewIdentity строит Identity из записи хранилища, подставляя значения по умолчанию:
// имя из email и роль customer.
func NewIdentity(u *User) Identity {
	name := u.FullName
	if name == "" {
		name = EmailLocalPart(u.Email)
	}
	role := u.Role
	if role == "" {
		role = RoleCustomer
	}
	return Identity{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  name,
		Phone:     u.Phone,
		Role:      role,
		AvatarURL: u.AvatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// UserSummary краткое представление пользователя в ответах аутентификации.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// ProfileSummary краткий профиль автора, прикладываемый к отзывам и заказам.
type ProfileSummary struct {
	FullName  string  `json:"full_name"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url"`
}

// ProfileUpdate изменения, доступные пользователю в собственном профиле.
type ProfileUpdate struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

// UserUpdate административное изменение пользователя.
type UserUpdate struct {
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
	Role      *string `json:"role"`
}
