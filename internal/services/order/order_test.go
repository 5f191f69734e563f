package order_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/codevault/internal/lib/ordernumber"
	"github.com/magabrotheeeer/codevault/internal/models"
	"github.com/magabrotheeeer/codevault/internal/services/order"
	"github.com/magabrotheeeer/codevault/internal/storage/repository"
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

func (m *RepoMock) CreateOrder(ctx context.Context, o models.Order) (*models.Order, error) {
	args := m.Called(ctx, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *RepoMock) ListOrdersByUser(ctx context.Context, userID string) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *RepoMock) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type staticNumbers string

func (s staticNumbers) Direct() string { return string(s) }

func newService(repo *RepoMock) *order.Service {
	return order.New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, staticNumbers("CV-TEST"))
}

func TestService_Create(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)
	buyer := models.Identity{ID: "u1", Role: models.RoleCustomer}

	repo.On("GetProductByID", mock.Anything, int64(5)).Return(&models.Product{ID: 5, Name: "Kit", Price: 2999}, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.UserID == "u1" && o.OrderNumber == "CV-TEST" && o.Amount == 2999 &&
			o.Status == models.OrderStatusCompleted && o.PaymentMethod == models.PaymentMethodStripe &&
			o.ProductName == "Kit"
	})).Return(&models.Order{ID: "o1"}, nil).Once()
	repo.On("GetOrderByID", mock.Anything, "o1").
		Return(&models.Order{ID: "o1", Product: &models.ProductSummary{Name: "Kit"}}, nil).Once()

	got, err := svc.Create(context.Background(), buyer, order.CreateInput{ProductID: 5})

	require.NoError(t, err)
	require.NotNil(t, got.Product)
	assert.Equal(t, "Kit", got.Product.Name)
	repo.AssertExpectations(t)
}

func TestService_Create_Errors(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)
	buyer := models.Identity{ID: "u1"}

	_, err := svc.Create(context.Background(), buyer, order.CreateInput{})
	assert.ErrorIs(t, err, order.ErrProductRequired)

	repo.On("GetProductByID", mock.Anything, int64(404)).Return(nil, repository.ErrNotFound).Once()
	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.ProductName == "Product 404" && o.PaymentMethod == "paypal"
	})).Return(nil, repository.ErrNotFound).Once()

	_, err = svc.Create(context.Background(), buyer, order.CreateInput{ProductID: 404, Amount: 10, PaymentMethod: "paypal"})
	assert.ErrorIs(t, err, order.ErrProductNotFound)
	repo.AssertExpectations(t)
}

func TestService_Get(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
		repoErr  error
		wantErr  error
	}{
		{name: "owner", identity: models.Identity{ID: "owner"}},
		{name: "admin", identity: models.Identity{ID: "other", Role: models.RoleAdmin}},
		{name: "other customer", identity: models.Identity{ID: "other", Role: models.RoleCustomer}, wantErr: order.ErrForbidden},
		{name: "missing", identity: models.Identity{ID: "owner"}, repoErr: repository.ErrNotFound, wantErr: order.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := newService(repo)
			if tt.repoErr != nil {
				repo.On("GetOrderByID", mock.Anything, "o1").Return(nil, tt.repoErr).Once()
			} else {
				repo.On("GetOrderByID", mock.Anything, "o1").Return(&models.Order{ID: "o1", UserID: "owner"}, nil).Once()
			}

			got, err := svc.Get(context.Background(), tt.identity, "o1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "o1", got.ID)
		})
	}
}

func TestService_Lists(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)
	repo.On("ListOrdersByUser", mock.Anything, "u1").Return([]*models.Order{{ID: "o1"}}, nil).Once()
	repo.On("ListAllOrders", mock.Anything).Return(nil, errors.New("db down")).Once()

	mine, err := svc.ListMine(context.Background(), models.Identity{ID: "u1"})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = svc.ListAll(context.Background())
	assert.ErrorContains(t, err, "order.ListAll")
	repo.AssertExpectations(t)
}

type sequenceNumbers struct {
	numbers []string
	next    int
}

func (s *sequenceNumbers) Direct() string {
	n := s.numbers[s.next]
	s.next++
	return n
}

func TestService_CreateRetriesOnNumberCollision(t *testing.T) {
	repo := new(RepoMock)
	numbers := &sequenceNumbers{numbers: []string{"CV-TAKEN", "CV-FREE"}}
	svc := order.New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, numbers)
	buyer := models.Identity{ID: "u1", Role: models.RoleCustomer}

	repo.On("GetProductByID", mock.Anything, int64(5)).Return(&models.Product{ID: 5, Name: "Kit", Price: 100}, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.OrderNumber == "CV-TAKEN"
	})).Return(nil, repository.ErrAlreadyExists).Once()
	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.OrderNumber == "CV-FREE"
	})).Return(&models.Order{ID: "o1", OrderNumber: "CV-FREE"}, nil).Once()
	repo.On("GetOrderByID", mock.Anything, "o1").Return(&models.Order{ID: "o1", OrderNumber: "CV-FREE"}, nil).Once()

	got, err := svc.Create(context.Background(), buyer, order.CreateInput{ProductID: 5})
	require.NoError(t, err)
	assert.Equal(t, "CV-FREE", got.OrderNumber)
	repo.AssertExpectations(t)
}

func TestService_CreateGivesUpAfterRepeatedCollisions(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo)

	repo.On("GetProductByID", mock.Anything, int64(5)).Return(&models.Product{ID: 5, Name: "Kit", Price: 100}, nil).Once()
	repo.On("CreateOrder", mock.Anything, mock.Anything).Return(nil, repository.ErrAlreadyExists).Times(3)

	_, err := svc.Create(context.Background(), models.Identity{ID: "u1"}, order.CreateInput{ProductID: 5})
	assert.ErrorIs(t, err, repository.ErrAlreadyExists)
	repo.AssertExpectations(t)
}

// uniqueOrders хранит заказы в памяти и отклоняет повторный order_number, как уникальный индекс.
type uniqueOrders struct {
	RepoMock
	seen map[string]struct{}
}

func (u *uniqueOrders) GetProductByID(_ context.Context, id int64) (*models.Product, error) {
	return &models.Product{ID: id, Name: "Kit", Price: 100}, nil
}

func (u *uniqueOrders) CreateOrder(_ context.Context, o models.Order) (*models.Order, error) {
	if _, ok := u.seen[o.OrderNumber]; ok {
		return nil, repository.ErrAlreadyExists
	}
	u.seen[o.OrderNumber] = struct{}{}
	o.ID = o.OrderNumber
	return &o, nil
}

func (u *uniqueOrders) GetOrderByID(_ context.Context, id string) (*models.Order, error) {
	return &models.Order{ID: id, OrderNumber: id}, nil
}

func TestService_CreateBurstKeepsNumbersUnique(t *testing.T) {
	repo := &uniqueOrders{seen: make(map[string]struct{})}
	svc := order.New(slog.New(slog.NewTextHandler(io.Discard, nil)), repo, ordernumber.New())
	buyer := models.Identity{ID: "u1", Role: models.RoleCustomer}

	for i := range 200 {
		_, err := svc.Create(context.Background(), buyer, order.CreateInput{ProductID: 5})
		require.NoError(t, err, "order %d", i)
	}
	assert.Len(t, repo.seen, 200)
}
