package models

import "time"

// Статусы заказа.
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
)

// Способы оплаты.
const (
	PaymentMethodCashfree = "cashfree"
	PaymentMethodStripe   = "stripe"
)

// Order заказ пользователя. OrderNumber связывает локальную запись с заказом у провайдера.
type Order struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	ProductID     *int64          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	OrderNumber   string          `json:"order_number"`
	Amount        int64           `json:"amount"`
	Status        string          `json:"status"`
	PaymentMethod string          `json:"payment_method"`
	PaymentID     *string         `json:"payment_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Product       *ProductSummary `json:"products,omitempty"`
	Profile       *ProfileSummary `json:"profiles,omitempty"`
}
