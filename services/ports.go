package services

import (
	"context"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"

	"github.com/shopspring/decimal"
)

// Interfaces for everything the checkout engine talks to. Concrete
// implementations live in this package (HTTP clients), database/ (session
// store) and kafka/ (event producer); tests substitute hand-rolled mocks.

// CartAPI reads cart snapshots from the cart service. Cart edits go through
// the cart service's own API; the engine only re-snapshots.
type CartAPI interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
}

// PromotionAPI validates promo codes against a subtotal.
type PromotionAPI interface {
	ValidatePromoCode(ctx context.Context, code string, subtotal decimal.Decimal) (*PromoResult, error)
}

// PromoResult is the promotion service's verdict on a code.
type PromoResult struct {
	Valid    bool                    `json:"valid"`
	Discount *models.AppliedDiscount `json:"discount,omitempty"`
	Message  string                  `json:"message,omitempty"`
}

// PickupAPI lists the tenant's pickup locations.
type PickupAPI interface {
	GetPickupLocations(ctx context.Context) ([]models.PickupLocation, error)
}

// TokenAPI exchanges raw card data for an opaque payment token. Raw PAN and
// CVV never travel past this boundary.
type TokenAPI interface {
	Tokenize(ctx context.Context, card *models.CardInput) (*models.PaymentToken, error)
}

// OrderAPI creates the order on the backend, keyed by the session's
// idempotency identifier.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req *models.CreateOrderRequest, idempotencyKey string) (*models.Order, *models.SubmissionError)
}

// SessionStore persists checkout sessions between requests.
type SessionStore interface {
	GetSession(ctx context.Context, userID string) (*models.CheckoutSession, error)
	SaveSession(ctx context.Context, session *models.CheckoutSession) error
	DeleteSession(ctx context.Context, userID string) error
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderNumber string, ttl time.Duration) error
}
