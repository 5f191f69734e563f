// Package order содержит операции с заказами вне платёжного сценария.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

const orderNumberAttempts = 3

var (
	// ErrNotFound заказ не найден.
	ErrNotFound = errors.New("order not found")
	// ErrForbidden заказ принадлежит другому пользователю.
	ErrForbidden = errors.New("access denied")
	// ErrProductRequired не указан товар.
	ErrProductRequired = errors.New("product_id is required")
	// ErrProductNotFound товар заказа не существует.
	ErrProductNotFound = errors.New("product not found")
)

// Repository хранилище заказов.
type Repository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	CreateOrder(ctx context.Context, o models.Order) (*models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
}

// OrderNumbers источник номеров заказов.
type OrderNumbers interface {
	Direct() string
}

// Service операции с заказами.
type Service struct {
	log     *slog.Logger
	repo    Repository
	numbers OrderNumbers
}

// New создаёт сервис заказов.
func New(log *slog.Logger, repo Repository, numbers OrderNumbers) *Service {
	return &Service{log: log, repo: repo, numbers: numbers}
}

// CreateInput параметры прямого заказа.
type CreateInput struct {
	ProductID     int64
	Amount        int64
	PaymentMethod string
}

// Create оформляет заказ без платёжного провайдера. Такой заказ сразу завершён.
func (s *Service) Create(ctx context.Context, identity models.Identity, in CreateInput) (*models.Order, error) {
	const op = "order.Create"
	if in.ProductID <= 0 {
		return nil, ErrProductRequired
	}

	product, err := s.repo.GetProductByID(ctx, in.ProductID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			s.log.Warn("product lookup failed", sl.Op(op), slog.Int64("product_id", in.ProductID), sl.Err(err))
		}
		product = nil
	}

	amount := in.Amount
	name := "Product " + truncate(strconv.FormatInt(in.ProductID, 10), 8)
	if product != nil {
		if amount <= 0 {
			amount = product.Price
		}
		name = product.Name
	}
	method := in.PaymentMethod
	if method == "" {
		method = models.PaymentMethodStripe
	}

	productID := in.ProductID
	order := models.Order{
		UserID:        identity.ID,
		ProductID:     &productID,
		ProductName:   name,
		Amount:        amount,
		Status:        models.OrderStatusCompleted,
		PaymentMethod: method,
	}
	var created *models.Order
	for range orderNumberAttempts {
		order.OrderNumber = s.numbers.Direct()
		created, err = s.repo.CreateOrder(ctx, order)
		if !errors.Is(err, repository.ErrAlreadyExists) {
			break
		}
		s.log.Warn("order number collision, regenerating", sl.Op(op), slog.String("order_number", order.OrderNumber))
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// перечитываем, чтобы вернуть заказ вместе с краткой карточкой товара
	joined, err := s.repo.GetOrderByID(ctx, created.ID)
	if err != nil {
		s.log.Warn("failed to re-read created order", sl.Op(op), sl.Err(err))
		return created, nil
	}
	return joined, nil
}

// Get возвращает заказ владельцу или администратору.
func (s *Service) Get(ctx context.Context, identity models.Identity, id string) (*models.Order, error) {
	const op = "order.Get"
	o, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if o.UserID != identity.ID && !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	return o, nil
}

// ListMine возвращает заказы пользователя, новые первыми.
func (s *Service) ListMine(ctx context.Context, identity models.Identity) ([]*models.Order, error) {
	const op = "order.ListMine"
	orders, err := s.repo.ListOrdersByUser(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

// ListAll возвращает все заказы с профилями покупателей.
func (s *Service) ListAll(ctx context.Context) ([]*models.Order, error) {
	const op = "order.ListAll"
	orders, err := s.repo.ListAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return orders, nil
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
