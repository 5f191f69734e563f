package payment

import (
	"errors"

	"github.com/magabrotheeeer/codevault/internal/paymentprovider"
)

// ErrValidation общий признак ошибок входных данных.
var ErrValidation = errors.New("validation failed")

type validationError string

func (e validationError) Error() string { return string(e) }

func (e validationError) Is(target error) bool { return target == ErrValidation }

// Ошибки входных данных сценария оплаты.
var (
	ErrProductRequired     error = validationError("product_id is required")
	ErrInvalidAmount       error = validationError("amount must be greater than zero")
	ErrOrderNumberRequired error = validationError("order_id is required")
)

// ProviderError отказ платёжного провайдера. Message пригоден для показа клиенту.
type ProviderError struct {
	Message string
	Err     error
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// newProviderError берёт сообщение провайдера, если оно есть, иначе fallback.
func newProviderError(fallback string, err error) *ProviderError {
	msg := fallback
	var apiErr *paymentprovider.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		msg = apiErr.Message
	}
	return &ProviderError{Message: msg, Err: err}
}
