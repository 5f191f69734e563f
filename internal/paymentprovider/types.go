package paymentprovider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatusPaid значение order_status оплаченного заказа.
const OrderStatusPaid = "PAID"

// CustomerDetails контакты покупателя для заказа.
type CustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone"`
	CustomerName  string `json:"customer_name"`
}

// OrderMeta параметры возврата покупателя после оплаты.
type OrderMeta struct {
	ReturnURL string `json:"return_url"`
}

// CreateOrderRequest запрос POST /orders.
type CreateOrderRequest struct {
	OrderID         string          `json:"order_id"`
	OrderAmount     int64           `json:"order_amount"`
	OrderCurrency   string          `json:"order_currency"`
	CustomerDetails CustomerDetails `json:"customer_details"`
	OrderMeta       OrderMeta       `json:"order_meta"`
	OrderNote       string          `json:"order_note"`
}

// Order заказ на стороне провайдера.
type Order struct {
	CFOrderID        ID      `json:"cf_order_id"`
	OrderID          string  `json:"order_id"`
	OrderAmount      float64 `json:"order_amount"`
	OrderCurrency    string  `json:"order_currency"`
	OrderStatus      string  `json:"order_status"`
	OrderNote        string  `json:"order_note"`
	PaymentSessionID string  `json:"payment_session_id"`
}

// IsPaid сообщает, считает ли провайдер заказ оплаченным.
func (o *Order) IsPaid() bool {
	return o.OrderStatus == OrderStatusPaid
}

// Payment попытка оплаты заказа.
type Payment struct {
	CFPaymentID   ID         `json:"cf_payment_id"`
	OrderID       string     `json:"order_id"`
	PaymentStatus string     `json:"payment_status"`
	PaymentAmount float64    `json:"payment_amount"`
	PaymentGroup  string     `json:"payment_group"`
	PaymentTime   *time.Time `json:"payment_time"`
}

// ID идентификатор, который провайдер отдаёт то строкой, то числом.
type ID string

// UnmarshalJSON принимает строку, число или null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("paymentprovider: unsupported id %s", data)
	}
	*id = ID(n.String())
	return nil
}

// APIError ответ провайдера с кодом не 2xx.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Type       string `json:"type"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("payment provider: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("payment provider: status %d", e.StatusCode)
}
