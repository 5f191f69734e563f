// Package list реализует HTTP-обработчик выдачи каталога товаров с фильтрами.
//
// Неактивные товары попадают в выдачу только для администратора.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// Service описывает выборку каталога.
type Service interface {
	List(ctx context.Context, f models.ProductFilter) ([]*models.Product, error)
}

// Handler обрабатывает GET /api/products.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Каталог товаров
// @Tags Products
// @Produce json
// @Param category query string false "Категория, all для всех"
// @Param search query string false "Поиск по названию и описанию"
// @Param featured query bool false "Только избранные"
// @Param limit query int false "Максимум записей"
// @Success 200 {object} response.Response{data=[]models.Product}
// @Failure 400 {object} response.ErrorResponse
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	q := r.URL.Query()
	f := models.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
	}
	if v := q.Get("featured"); v != "" {
		featured, err := strconv.ParseBool(v)
		if err != nil {
			response.JSON(w, r, http.StatusBadRequest, response.Error("featured must be a boolean"))
			return
		}
		f.Featured = &featured
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			response.JSON(w, r, http.StatusBadRequest, response.Error("limit must be a non-negative integer"))
			return
		}
		f.Limit = limit
	}
	if identity, ok := middlewarectx.IdentityFrom(r.Context()); ok && identity.IsAdmin() {
		f.IncludeInactive = true
	}

	products, err := h.service.List(r.Context(), f)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		return
	}

	log.Debug("products listed", slog.Int("count", len(products)))
	response.JSON(w, r, http.StatusOK, response.OK(products))
}
