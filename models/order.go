package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItem is a cart line reduced to what the order API needs. Prices are
// deliberately omitted: the backend recomputes authoritative pricing and
// compares against the client total.
type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the single order-creation request built from a
// finalized checkout session. The session's idempotency key accompanies it
// as a header so backend retries never double-create.
type CreateOrderRequest struct {
	SessionID    string               `json:"session_id"`
	Items        []OrderItem          `json:"items"`
	Fulfillment  FulfillmentSelection `json:"fulfillment"`
	Contact      CustomerContact      `json:"contact"`
	PaymentRef   string               `json:"payment_ref,omitempty"`
	Method       PaymentMethod        `json:"payment_method"`
	DiscountCode string               `json:"discount_code,omitempty"`
	TipAmount    decimal.Decimal      `json:"tip_amount"`
	ClientTotal  decimal.Decimal      `json:"client_total"`
}

// Order is the terminal artifact returned by the order API.
type Order struct {
	OrderNumber string               `json:"order_number"`
	Status      string               `json:"status"`
	Breakdown   PriceBreakdown       `json:"breakdown"`
	Fulfillment FulfillmentSelection `json:"fulfillment"`
	Contact     CustomerContact      `json:"contact"`
	PaymentRef  string               `json:"payment_ref,omitempty"`
	CreatedAt   time.Time            `json:"created_at"`
}

// Submission error kinds, mapped from order API responses.
type SubmissionErrorKind string

const (
	SubmissionValidationRejected   SubmissionErrorKind = "validation_rejected"
	SubmissionPaymentDeclined      SubmissionErrorKind = "payment_declined"
	SubmissionInventoryUnavailable SubmissionErrorKind = "inventory_unavailable"
	SubmissionTransientFailure     SubmissionErrorKind = "transient_failure"
)

// SubmissionError is the only "exceptional" failure class in the engine:
// every order API error is converted into one of the kinds above before it
// reaches the state machine.
type SubmissionError struct {
	Kind      SubmissionErrorKind `json:"kind"`
	Message   string              `json:"message"`
	ProductID string              `json:"product_id,omitempty"` // set for inventory_unavailable
}

func (e *SubmissionError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// CheckoutEvent is published to Kafka on terminal transitions.
type CheckoutEvent struct {
	Event       string          `json:"event"` // checkout.completed / checkout.failed
	SessionID   string          `json:"session_id"`
	UserID      string          `json:"user_id"`
	OrderNumber string          `json:"order_number,omitempty"`
	Total       decimal.Decimal `json:"total"`
	Reason      string          `json:"reason,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}
