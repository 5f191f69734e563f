// Package paymenterr переводит ошибки сценария оплаты в HTTP-ответы.
package paymenterr

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/services/payment"
)

// Write пишет ответ на ошибку: входные данные и отказ провайдера дают 400,
// остальное 500.
func Write(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var provErr *payment.ProviderError
	switch {
	case errors.Is(err, payment.ErrValidation):
		log.Info("invalid payment request", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error(err.Error()))
	case errors.As(err, &provErr):
		log.Warn("payment provider rejected request", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error(provErr.Message))
	default:
		log.Error("payment request failed", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
	}
}
