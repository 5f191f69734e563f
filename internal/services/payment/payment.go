// Package payment реализует сценарий оплаты заказа через внешний платёжный шлюз:
// создание заказа у провайдера, сверку статуса и перевод локального заказа в completed.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/magabrotheeeer/codevault/internal/lib/metrics"
	"github.com/magabrotheeeer/codevault/internal/lib/sl"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/paymentprovider"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
)

const (
	defaultCurrency      = "INR"
	defaultEmail         = "customer@codevault.dev"
	defaultPhone         = "9999999999"
	defaultCustomerName  = "Customer"
	defaultCustomerID    = "guest"
	defaultOrderNote     = "Codevault Premium Purchase"
	defaultProductName   = "Codevault Purchase"
	defaultPaymentMethod = "online"

	maxCustomerIDLen    = 50
	phoneDigits         = 10
	orderNumberAttempts = 3
)

// OrderRepository хранилище заказов и товаров, с которым работает сценарий оплаты.
type OrderRepository interface {
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	OrderNumberExists(ctx context.Context, orderNumber string) (bool, error)
	CreateOrder(ctx context.Context, o models.Order) (*models.Order, error)
	CompleteOrders(ctx context.Context, orderNumber, paymentID string) (int64, error)
	GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
}

// Provider платёжный шлюз.
type Provider interface {
	CreateOrder(ctx context.Context, req paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paymentprovider.Order, error)
	ListPayments(ctx context.Context, orderID string) ([]paymentprovider.Payment, error)
}

// EventPublisher публикует события сверки.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// OrderNumbers источник номеров заказов.
type OrderNumbers interface {
	Checkout() string
}

// Options настройки сценария оплаты.
type Options struct {
	Currency          string
	FrontendURL       string
	StrictAmountCheck bool
}

// Service сценарий оплаты.
type Service struct {
	log       *slog.Logger
	repo      OrderRepository
	provider  Provider
	publisher EventPublisher
	numbers   OrderNumbers
	metrics   *metrics.Metrics
	opts      Options
	now       func() time.Time
}

// New создаёт сервис оплаты.
func New(log *slog.Logger, repo OrderRepository, provider Provider, publisher EventPublisher,
	numbers OrderNumbers, m *metrics.Metrics, opts Options) *Service {
	if opts.Currency == "" {
		opts.Currency = defaultCurrency
	}
	opts.FrontendURL = strings.TrimRight(opts.FrontendURL, "/")
	return &Service{
		log:       log,
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		numbers:   numbers,
		metrics:   m,
		opts:      opts,
		now:       time.Now,
	}
}

// InitiateInput параметры создания заказа на оплату.
type InitiateInput struct {
	ProductID   int64
	ProductName string
	Amount      int64
}

// Initiate создаёт заказ у провайдера и локальный заказ в статусе pending.
//
// Отказ провайдера прерывает операцию до записи в базу. Ошибка записи локального
// заказа после успешного ответа провайдера не прерывает операцию: заказ считается
// осиротевшим и уходит на сверку.
func (s *Service) Initiate(ctx context.Context, identity models.Identity, in InitiateInput) (*models.PaymentOrder, error) {
	const op = "payment.Initiate"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	log := s.log.With(sl.Op(op), slog.String("user_id", identity.ID))

	if in.ProductID <= 0 {
		return nil, ErrProductRequired
	}

	product, err := s.repo.GetProductByID(ctx, in.ProductID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn("product lookup failed, using requested amount",
				slog.Int64("product_id", in.ProductID), sl.Err(err))
		}
		product = nil
	}

	amount := in.Amount
	if amount <= 0 && product != nil {
		amount = product.Price
	}
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	name := in.ProductName
	if product != nil {
		name = product.Name
	}
	note := name
	if note == "" {
		note = defaultOrderNote
	}

	orderNumber := s.nextOrderNumber(ctx, log)
	log = log.With(slog.String("order_number", orderNumber))

	remote, err := s.provider.CreateOrder(ctx, paymentprovider.CreateOrderRequest{
		OrderID:         orderNumber,
		OrderAmount:     amount,
		OrderCurrency:   s.opts.Currency,
		CustomerDetails: customerDetails(identity),
		OrderMeta: paymentprovider.OrderMeta{
			ReturnURL: s.opts.FrontendURL + "/payment/success?order_id={order_id}",
		},
		OrderNote: note,
	})
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("create_order").Inc()
		log.Error("provider rejected order", sl.Err(err))
		return nil, newProviderError("Failed to create payment order", err)
	}

	cfOrderID := string(remote.CFOrderID)
	snapshot := name
	if snapshot == "" {
		snapshot = "Product " + truncate(strconv.FormatInt(in.ProductID, 10), 8)
	}
	productID := in.ProductID
	local := models.Order{
		UserID:        identity.ID,
		ProductID:     &productID,
		ProductName:   snapshot,
		OrderNumber:   orderNumber,
		Amount:        amount,
		Status:        models.OrderStatusPending,
		PaymentMethod: models.PaymentMethodCashfree,
		PaymentID:     &cfOrderID,
	}

	result := &models.PaymentOrder{
		OrderID:          orderNumber,
		PaymentSessionID: remote.PaymentSessionID,
		CFOrderID:        cfOrderID,
		OrderAmount:      amount,
		ProductName:      name,
	}

	saved, err := s.repo.CreateOrder(ctx, local)
	if err != nil {
		s.metrics.OrphanedOrders.Inc()
		log.Error("failed to persist order, provider order is orphaned", sl.Err(err))
		if errors.Is(err, repository.ErrNotFound) {
			// товар удалён между чтением и записью
			local.ProductID = nil
		}
		s.publish(ctx, log, models.EventOrderOrphaned, local, err)
		return result, nil
	}
	result.DBOrderID = &saved.ID
	log.Info("payment order created", slog.String("cf_order_id", cfOrderID), slog.Int64("amount", amount))
	return result, nil
}

// nextOrderNumber подбирает свободный номер заказа.
// Уникальный индекс в базе остаётся последней защитой, если все попытки заняты.
func (s *Service) nextOrderNumber(ctx context.Context, log *slog.Logger) string {
	var number string
	for range orderNumberAttempts {
		number = s.numbers.Checkout()
		exists, err := s.repo.OrderNumberExists(ctx, number)
		if err != nil {
			log.Warn("order number check failed", slog.String("order_number", number), sl.Err(err))
			return number
		}
		if !exists {
			return number
		}
		log.Warn("order number collision, regenerating", slog.String("order_number", number))
	}
	return number
}

// Verify сверяет заказ с провайдером и, если он оплачен, переводит локальные заказы в completed.
// После успешного чтения у провайдера ошибки локальных данных не прерывают операцию.
func (s *Service) Verify(ctx context.Context, orderNumber string) (*models.PaymentVerification, error) {
	const op = "payment.Verify"
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	log := s.log.With(sl.Op(op), slog.String("order_number", orderNumber))

	remote, err := s.provider.GetOrder(ctx, orderNumber)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("get_order").Inc()
		log.Error("failed to read provider order", sl.Err(err))
		return nil, newProviderError("Failed to verify payment", err)
	}

	payments, err := s.provider.ListPayments(ctx, orderNumber)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("list_payments").Inc()
		log.Warn("failed to list provider payments", sl.Err(err))
		payments = nil
	}

	paid := remote.IsPaid()
	if paid {
		s.complete(ctx, log, orderNumber, remote, payments)
	}

	dbOrder := s.localOrder(ctx, log, orderNumber)

	result := &models.PaymentVerification{
		OrderID:       firstNonEmpty(remote.OrderID, orderNumber),
		OrderStatus:   remote.OrderStatus,
		OrderAmount:   remote.OrderAmount,
		OrderCurrency: firstNonEmpty(remote.OrderCurrency, defaultCurrency),
		CFOrderID:     string(remote.CFOrderID),
		PaymentMethod: defaultPaymentMethod,
		IsPaid:        paid,
		ProductName:   productName(dbOrder, remote),
		DBOrder:       dbOrder,
	}
	if len(payments) > 0 {
		result.PaymentMethod = firstNonEmpty(payments[0].PaymentGroup, defaultPaymentMethod)
		result.PaymentTime = payments[0].PaymentTime
	}
	return result, nil
}

func (s *Service) complete(ctx context.Context, log *slog.Logger, orderNumber string,
	remote *paymentprovider.Order, payments []paymentprovider.Payment) {
	paymentID := string(remote.CFOrderID)
	if len(payments) > 0 && payments[0].CFPaymentID != "" {
		paymentID = string(payments[0].CFPaymentID)
	}
	pending := models.Order{OrderNumber: orderNumber, PaymentID: &paymentID, Status: models.OrderStatusCompleted}

	if s.opts.StrictAmountCheck {
		local, err := s.repo.GetOrderByNumber(ctx, orderNumber)
		switch {
		case err == nil && float64(local.Amount) != remote.OrderAmount:
			s.metrics.AmountMismatches.Inc()
			log.Error("provider amount differs from local order, completion skipped",
				slog.Int64("local_amount", local.Amount),
				slog.Float64("provider_amount", remote.OrderAmount))
			return
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			s.metrics.CompletionFailures.Inc()
			log.Error("failed to read local order for amount check", sl.Err(err))
			s.publish(ctx, log, models.EventOrderCompletionFailed, pending, err)
			return
		}
	}

	n, err := s.repo.CompleteOrders(ctx, orderNumber, paymentID)
	if err != nil {
		s.metrics.CompletionFailures.Inc()
		log.Error("failed to complete paid order", sl.Err(err))
		s.publish(ctx, log, models.EventOrderCompletionFailed, pending, err)
		return
	}
	if n == 0 {
		log.Warn("paid order has no local record")
		return
	}
	s.metrics.PaymentsCompleted.Inc()
	log.Info("order completed", slog.String("payment_id", paymentID), slog.Int64("rows", n))
}

// Status возвращает состояние заказа у провайдера и локальный заказ без изменений.
func (s *Service) Status(ctx context.Context, orderNumber string) (*models.PaymentStatus, error) {
	const op = "payment.Status"
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, ErrOrderNumberRequired
	}
	log := s.log.With(sl.Op(op), slog.String("order_number", orderNumber))

	remote, err := s.provider.GetOrder(ctx, orderNumber)
	if err != nil {
		s.metrics.ProviderErrors.WithLabelValues("get_order").Inc()
		log.Error("failed to read provider order", sl.Err(err))
		return nil, newProviderError("Failed to get payment status", err)
	}
	dbOrder := s.localOrder(ctx, log, orderNumber)

	return &models.PaymentStatus{
		OrderID:     firstNonEmpty(remote.OrderID, orderNumber),
		OrderStatus: remote.OrderStatus,
		OrderAmount: remote.OrderAmount,
		IsPaid:      remote.IsPaid(),
		ProductName: productName(dbOrder, remote),
		DBOrder:     dbOrder,
	}, nil
}

func (s *Service) localOrder(ctx context.Context, log *slog.Logger, orderNumber string) *models.Order {
	o, err := s.repo.GetOrderByNumber(ctx, orderNumber)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Warn("failed to read local order", sl.Err(err))
		}
		return nil
	}
	return o
}

func (s *Service) publish(ctx context.Context, log *slog.Logger, eventType string, order models.Order, cause error) {
	event := models.OrderEvent{
		Type:       eventType,
		Order:      order,
		Reason:     cause.Error(),
		OccurredAt: s.now().UTC(),
	}
	// публикация не должна зависеть от отмены исходного запроса
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.publisher.Publish(pubCtx, eventType, event); err != nil {
		log.Error("failed to publish reconcile event", slog.String("event", eventType), sl.Err(err))
	}
}

func customerDetails(identity models.Identity) paymentprovider.CustomerDetails {
	id := truncate(keepOnly(identity.ID, isAlnum), maxCustomerIDLen)
	if id == "" {
		id = defaultCustomerID
	}

	email := identity.Email
	if email == "" {
		email = defaultEmail
	}

	phone := defaultPhone
	if identity.Phone != nil {
		if digits := keepOnly(*identity.Phone, isDigit); digits != "" {
			if len(digits) > phoneDigits {
				digits = digits[len(digits)-phoneDigits:]
			}
			phone = digits
		}
	}

	name := identity.FullName
	if name == "" {
		name = models.EmailLocalPart(identity.Email)
	}
	if name == "" {
		name = defaultCustomerName
	}

	return paymentprovider.CustomerDetails{
		CustomerID:    id,
		CustomerEmail: email,
		CustomerPhone: phone,
		CustomerName:  name,
	}
}

func productName(dbOrder *models.Order, remote *paymentprovider.Order) string {
	if dbOrder != nil && dbOrder.ProductName != "" {
		return dbOrder.ProductName
	}
	return firstNonEmpty(remote.OrderNote, defaultProductName)
}

func keepOnly(s string, keep func(r rune) bool) string {
	var b strings.Builder
	for _, r := range s {
		if keep(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isAlnum(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || isDigit(r)
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
