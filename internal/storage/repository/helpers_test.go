package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/codevault/internal/migrations"
	"github.com/magabrotheeeer/codevault/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("codevault"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	root, err := filepath.Abs("../../..")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB, filepath.Join(root, "migrations")))

	return storage
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя
func (f *TestDataFactory) CreateUser(t *testing.T, email, role string) *models.User {
	u, err := f.storage.CreateUser(context.Background(), models.User{
		Email:        email,
		PasswordHash: "hash",
		FullName:     models.EmailLocalPart(email),
		Role:         role,
	})
	require.NoError(t, err)
	return u
}

// CreateProduct создает тестовый товар
func (f *TestDataFactory) CreateProduct(t *testing.T, slug string, price int64, active bool) *models.Product {
	p, err := f.storage.CreateProduct(context.Background(), models.Product{
		Slug:      slug,
		Name:      "Product " + slug,
		Price:     price,
		Category:  "templates",
		TechStack: []string{"go", "postgres"},
		IsActive:  active,
	})
	require.NoError(t, err)
	return p
}

// CreateOrder создает тестовый заказ
func (f *TestDataFactory) CreateOrder(t *testing.T, userID string, productID *int64, number, status string, amount int64) *models.Order {
	o, err := f.storage.CreateOrder(context.Background(), models.Order{
		ID:            uuid.NewString(),
		UserID:        userID,
		ProductID:     productID,
		ProductName:   "snapshot",
		OrderNumber:   number,
		Amount:        amount,
		Status:        status,
		PaymentMethod: models.PaymentMethodCashfree,
	})
	require.NoError(t, err)
	return o
}
