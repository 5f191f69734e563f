// Package health содержит проверки живости сервиса.
//
// /health отвечает всегда, /api/health дополнительно проверяет базу данных.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
)

// Pinger проверяет базу, возвращая число пользователей.
type Pinger interface {
	Ping(ctx context.Context) (int64, error)
}

// Status ответ проверки живости.
type Status struct {
	Status    string    `json:"status" example:"ok"`
	DBUsers   *int64    `json:"dbUsers,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Handler обрабатывает /health и /api/health.
type Handler struct {
	log    *slog.Logger
	pinger Pinger
	now    func() time.Time
}

// New создает Handler.
func New(log *slog.Logger, pinger Pinger) *Handler {
	return &Handler{log: log, pinger: pinger, now: time.Now}
}

// Live godoc
// @Summary Проверка живости
// @Tags Health
// @Produce json
// @Success 200 {object} Status
// @Router /health [get]
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, Status{Status: "ok", Timestamp: h.now().UTC()})
}

// Ready godoc
// @Summary Проверка живости с базой данных
// @Tags Health
// @Produce json
// @Success 200 {object} Status
// @Failure 500 {object} Status
// @Router /api/health [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health.ready"

	n, err := h.pinger.Ping(r.Context())
	if err != nil {
		h.log.Error("health check failed", slog.String("op", op), sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, Status{
			Status:    "error",
			Error:     response.Internal(r, err).Error,
			Timestamp: h.now().UTC(),
		})
		return
	}
	render.JSON(w, r, Status{Status: "ok", DBUsers: &n, Timestamp: h.now().UTC()})
}
