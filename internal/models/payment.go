package models

import "time"

// PaymentOrder результат создания заказа у платёжного провайдера.
type PaymentOrder struct {
	OrderID          string  `json:"order_id"`
	PaymentSessionID string  `json:"payment_session_id"`
	CFOrderID        string  `json:"cf_order_id"`
	OrderAmount      int64   `json:"order_amount"`
	ProductName      string  `json:"product_name"`
	DBOrderID        *string `json:"db_order_id"`
}

// PaymentVerification результат сверки заказа с провайдером.
type PaymentVerification struct {
	OrderID       string     `json:"order_id"`
	OrderStatus   string     `json:"order_status"`
	OrderAmount   float64    `json:"order_amount"`
	OrderCurrency string     `json:"order_currency"`
	CFOrderID     string     `json:"cf_order_id"`
	PaymentMethod string     `json:"payment_method"`
	PaymentTime   *time.Time `json:"payment_time"`
	IsPaid        bool       `json:"is_paid"`
	ProductName   string     `json:"product_name"`
	DBOrder       *Order     `json:"db_order"`
}

// PaymentStatus состояние заказа без изменения локальных данных.
type PaymentStatus struct {
	OrderID     string  `json:"order_id"`
	OrderStatus string  `json:"order_status"`
	OrderAmount float64 `json:"order_amount"`
	IsPaid      bool    `json:"is_paid"`
	ProductName string  `json:"product_name"`
	DBOrder     *Order  `json:"db_order"`
}

// Типы событий сверки, публикуемых в брокер.
const (
	EventOrderOrphaned         = "order.orphaned"
	EventOrderCompletionFailed = "order.completion_failed"
)

// OrderEvent событие о расхождении между провайдером и локальными данными.
type OrderEvent struct {
	Type       string    `json:"type"`
	Order      Order     `json:"order"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
