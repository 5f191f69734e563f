// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков в виде конверта
// {success, data | error, message}.
package response

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"
)

// Response описывает стандартную структуру JSON‑ответа сервера.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse структура ошибки для Swagger-документации.
// Используется в аннотациях @Failure как возвращаемый тип ошибки.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error" example:"invalid request body"`
}

// OK возвращает успешный Response с переданными данными.
func OK(data any) Response {
	return Response{Success: true, Data: data}
}

// Message возвращает успешный Response с текстом без данных.
func Message(msg string) Response {
	return Response{Success: true, Message: msg}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) Response {
	return Response{Success: false, Error: msg}
}

// JSON выставляет код ответа и пишет тело.
func JSON(w http.ResponseWriter, r *http.Request, status int, resp any) {
	render.Status(r, status)
	render.JSON(w, r, resp)
}

type exposeKey struct{}

// ExposeErrors управляет тем, попадает ли текст внутренних ошибок в ответ.
func ExposeErrors(expose bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), exposeKey{}, expose)))
		})
	}
}

// Internal формирует ответ на внутреннюю ошибку. Текст ошибки раскрывается
// только если запрос прошёл через ExposeErrors(true).
func Internal(r *http.Request, err error) Response {
	if expose, _ := r.Context().Value(exposeKey{}).(bool); expose && err != nil {
		return Error(err.Error())
	}
	return Error("Internal server error")
}

// ValidationError формирует Response на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) Response {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at least %s", err.Field(), err.Param()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s", err.Field(), err.Param()))
		case "gt":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than %s", err.Field(), err.Param()))
		case "url":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid url", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

// AuthResponse ответ регистрации и входа: токен доступа и пользователь.
type AuthResponse struct {
	Success     bool   `json:"success" example:"true"`
	Message     string `json:"message" example:"Login successful"`
	AccessToken string `json:"access_token"`
	User        any    `json:"user"`
}
