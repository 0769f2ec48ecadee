package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
)

// OrderClient creates orders on the order API. Every response is converted
// into either an Order or a typed SubmissionError; raw network and parse
// errors never escape this client.
type OrderClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOrderClient(baseURL string) *OrderClient {
	return &OrderClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type orderErrorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	ProductID string `json:"product_id,omitempty"`
}

// CreateOrder posts the order-creation request with the session's
// idempotency key. The backend deduplicates on that key, so replaying after
// a transient failure is safe.
func (c *OrderClient) CreateOrder(ctx context.Context, req *models.CreateOrderRequest, idempotencyKey string) (*models.Order, *models.SubmissionError) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &models.SubmissionError{
			Kind:    models.SubmissionTransientFailure,
			Message: "could not encode order request",
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &models.SubmissionError{
			Kind:    models.SubmissionTransientFailure,
			Message: "could not build order request",
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Idempotency-Key", idempotencyKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// Timeouts and connection failures are retryable with the same key.
		var netErr net.Error
		if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
			return nil, &models.SubmissionError{
				Kind:    models.SubmissionTransientFailure,
				Message: "order service did not respond, please try again",
			}
		}
		return nil, &models.SubmissionError{
			Kind:    models.SubmissionTransientFailure,
			Message: "order service unreachable, please try again",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		var order models.Order
		if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
			return nil, &models.SubmissionError{
				Kind:    models.SubmissionTransientFailure,
				Message: "could not read order confirmation, please try again",
			}
		}
		return &order, nil
	}

	var errResp orderErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&errResp)

	return nil, classifyOrderError(resp.StatusCode, errResp)
}

func classifyOrderError(status int, errResp orderErrorResponse) *models.SubmissionError {
	switch {
	case status == http.StatusPaymentRequired || errResp.Code == "payment_declined":
		return &models.SubmissionError{
			Kind:    models.SubmissionPaymentDeclined,
			Message: "Payment was declined",
		}
	case status == http.StatusConflict || errResp.Code == "out_of_stock":
		return &models.SubmissionError{
			Kind:      models.SubmissionInventoryUnavailable,
			Message:   "An item in your cart is no longer available",
			ProductID: errResp.ProductID,
		}
	case status >= 400 && status < 500:
		msg := errResp.Message
		if msg == "" {
			msg = "The order was rejected"
		}
		return &models.SubmissionError{
			Kind:    models.SubmissionValidationRejected,
			Message: msg,
		}
	default:
		return &models.SubmissionError{
			Kind:    models.SubmissionTransientFailure,
			Message: "Something went wrong, please try again",
		}
	}
}
