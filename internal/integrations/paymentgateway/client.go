package paymentgateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент платежного шлюза.
// Движок бронирования не реализует платежный протокол: он только
// инициирует capture/refund и записывает результат
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента платежного шлюза
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Capture списывает сумму по коду брони
func (c *Client) Capture(ctx context.Context, amount int64, bookingRef string) (*PaymentResult, error) {
	var result PaymentResult
	err := c.post(ctx, "/internal/payments/capture", CaptureRequest{Amount: amount, BookingRef: bookingRef}, &result)
	if err != nil {
		return nil, err
	}

	if result.Status == "declined" {
		return nil, ErrPaymentDeclined
	}

	c.log.Info("Capture: booking_ref=%s amount=%d payment_ref=%s", bookingRef, amount, result.PaymentRef)
	return &result, nil
}

// Refund возвращает сумму по ссылке платежа
func (c *Client) Refund(ctx context.Context, paymentRef string, amount int64) (*RefundResult, error) {
	var result RefundResult
	err := c.post(ctx, "/internal/payments/refund", RefundRequest{PaymentRef: paymentRef, Amount: amount}, &result)
	if err != nil {
		return nil, err
	}

	c.log.Info("Refund: payment_ref=%s amount=%d refund_ref=%s", paymentRef, amount, result.RefundRef)
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusNotFound:
		return ErrPaymentNotFound
	case http.StatusPaymentRequired, http.StatusUnprocessableEntity:
		return ErrPaymentDeclined
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
