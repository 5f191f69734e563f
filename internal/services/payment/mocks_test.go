package payment_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/paymentprovider"
)

type RepoMock struct {
	mock.Mock
}

func (m *RepoMock) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *RepoMock) OrderNumberExists(ctx context.Context, orderNumber string) (bool, error) {
	args := m.Called(ctx, orderNumber)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) InsertOrderIfMissing(ctx context.Context, o models.Order) (bool, error) {
	args := m.Called(ctx, o)
	return args.Bool(0), args.Error(1)
}

func (m *RepoMock) CompleteOrders(ctx context.Context, orderNumber, paymentID string) (int64, error) {
	args := m.Called(ctx, orderNumber, paymentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) GetOrderByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	args := m.Called(ctx, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

type ProviderMock struct {
	mock.Mock
}

func (m *ProviderMock) CreateOrder(ctx context.Context, req paymentprovider.CreateOrderRequest) (*paymentprovider.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Order), args.Error(1)
}

func (m *ProviderMock) GetOrder(ctx context.Context, orderID string) (*paymentprovider.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.Order), args.Error(1)
}

func (m *ProviderMock) ListPayments(ctx context.Context, orderID string) ([]paymentprovider.Payment, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]paymentprovider.Payment), args.Error(1)
}

type PublisherMock struct {
	mock.Mock
}

func (m *PublisherMock) Publish(ctx context.Context, routingKey string, message any) error {
	args := m.Called(ctx, routingKey, message)
	return args.Error(0)
}

// fixedNumbers выдаёт номера заказов по очереди.
type fixedNumbers struct {
	numbers []string
	i       int
}

func (f *fixedNumbers) Checkout() string {
	n := f.numbers[f.i%len(f.numbers)]
	f.i++
	return n
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
