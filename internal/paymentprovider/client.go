// Package paymentprovider реализует клиент REST API платёжного шлюза Cashfree PG.
package paymentprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/magabrotheeeer/codevault/internal/config"
)

// ErrMissingSession провайдер подтвердил заказ, но не вернул payment_session_id.
var ErrMissingSession = errors.New("payment provider: missing payment session id")

// Client клиент Cashfree PG.
type Client struct {
	appID      string
	secretKey  string
	apiVersion string
	apiURL     string
	httpClient *http.Client
}

// NewClient создаёт клиент по настройкам шлюза.
func NewClient(cfg config.Cashfree) *Client {
	timeout := cfg.TimeoutCashfree
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		appID:      cfg.AppID,
		secretKey:  cfg.SecretKey,
		apiVersion: cfg.APIVersion,
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b := &bytes.Buffer{}
		if err := json.NewEncoder(b).Encode(body); err != nil {
			return nil, err
		}
		buf = b
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-client-id", c.appID)
	req.Header.Set("x-client-secret", c.secretKey)
	req.Header.Set("x-api-version", c.apiVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do выполняет запрос и декодирует ответ в out. Ответ не 2xx превращается в *APIError.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(body, apiErr)
		return apiErr
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// CreateOrder создаёт заказ у провайдера и возвращает его вместе с сессией оплаты.
func (c *Client) CreateOrder(ctx context.Context, reqParams CreateOrderRequest) (*Order, error) {
	const op = "paymentprovider.CreateOrder"
	req, err := c.newRequest(ctx, http.MethodPost, "/orders", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var order Order
	if err = c.do(req, &order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.PaymentSessionID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSession)
	}
	return &order, nil
}

// GetOrder читает заказ по order_id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	const op = "paymentprovider.GetOrder"
	req, err := c.newRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var order Order
	if err = c.do(req, &order); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &order, nil
}

// ListPayments возвращает попытки оплаты заказа.
func (c *Client) ListPayments(ctx context.Context, orderID string) ([]Payment, error) {
	const op = "paymentprovider.ListPayments"
	req, err := c.newRequest(ctx, http.MethodGet, "/orders/"+url.PathEscape(orderID)+"/payments", nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var payments []Payment
	if err = c.do(req, &payments); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return payments, nil
}
