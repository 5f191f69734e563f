// Package create реализует HTTP-обработчик добавления товара в каталог.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/codevault/internal/http/response"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/product"
)

// Request данные нового товара. Slug выводится из названия, если не задан.
type Request struct {
	Slug             string   `json:"slug"`
	Name             string   `json:"name" validate:"required,max=200"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	Price            int64    `json:"price" validate:"min=0"`
	OriginalPrice    *int64   `json:"original_price" validate:"omitempty,min=0"`
	Category         string   `json:"category"`
	TechStack        []string `json:"tech_stack"`
	Features         []string `json:"features"`
	ImageURL         *string  `json:"image_url"`
	DemoURL          *string  `json:"demo_url"`
	IsActive         *bool    `json:"is_active"`
	Featured         bool     `json:"featured"`
}

// Service сохраняет товар.
type Service interface {
	Create(ctx context.Context, p models.Product) (*models.Product, error)
}

// Handler обрабатывает POST /api/products.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, validate: validator.New()}
}

// ServeHTTP godoc
// @Summary Создать товар
// @Tags Products
// @Accept json
// @Produce json
// @Param request body Request true "Товар"
// @Success 201 {object} response.Response{data=models.Product}
// @Failure 400 {object} response.ErrorResponse "Некорректные данные или slug занят"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Router /products [post]
// @Security BearerAuth
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			response.JSON(w, r, http.StatusBadRequest, response.ValidationError(verrs))
			return
		}
		response.JSON(w, r, http.StatusBadRequest, response.Error("invalid request body"))
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	created, err := h.service.Create(r.Context(), models.Product{
		Slug:             req.Slug,
		Name:             req.Name,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		OriginalPrice:    req.OriginalPrice,
		Category:         req.Category,
		TechStack:        req.TechStack,
		Features:         req.Features,
		ImageURL:         req.ImageURL,
		DemoURL:          req.DemoURL,
		IsActive:         isActive,
		Featured:         req.Featured,
	})
	if err != nil {
		switch {
		case errors.Is(err, product.ErrSlugTaken):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Product with this slug already exists"))
		case errors.Is(err, product.ErrEmptySlug):
			response.JSON(w, r, http.StatusBadRequest, response.Error("Product slug is required"))
		default:
			log.Error("failed to create product", sl.Err(err))
			response.JSON(w, r, http.StatusInternalServerError, response.Internal(r, err))
		}
		return
	}

	response.JSON(w, r, http.StatusCreated, response.Response{
		Success: true,
		Data:    created,
		Message: "Product created successfully",
	})
}
