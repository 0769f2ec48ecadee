package models

import "time"

// Step is the current position in the checkout flow.
type Step string

const (
	StepCart        Step = "cart"
	StepFulfillment Step = "fulfillment"
	StepPayment     Step = "payment"
	StepReview      Step = "review"
	StepSubmitting  Step = "submitting"
	StepConfirmed   Step = "confirmed"
)

// CheckoutSession is the aggregate root for a single checkout. It is created
// from a non-empty cart, mutated only by the checkout service, and expires
// from the session store when abandoned.
//
// IdempotencyKey is fixed for the life of the session: every order-creation
// attempt for this session carries the same key, so a retry after a
// transient failure can never double-create an order.
type CheckoutSession struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	IdempotencyKey string                `json:"idempotency_key"`
	Step           Step                  `json:"step"`
	Cart           Cart                  `json:"cart"`
	Fulfillment    *FulfillmentSelection `json:"fulfillment,omitempty"`
	Compliance     ComplianceState       `json:"compliance"`
	Contact        CustomerContact       `json:"contact"`
	Payment        *PaymentSelection     `json:"payment,omitempty"`
	Discount       *AppliedDiscount      `json:"discount,omitempty"`
	Tip            TipSelection          `json:"tip"`
	Breakdown      PriceBreakdown        `json:"breakdown"`
	Failures       []ValidationFailure   `json:"failures,omitempty"`
	LastSubmission *SubmissionError      `json:"last_submission,omitempty"`
	// SubmitStartedAt marks when the session entered Submitting; cleared on
	// any terminal outcome. It bounds how long an in-flight submission can
	// block retries and abandonment.
	SubmitStartedAt *time.Time `json:"submit_started_at,omitempty"`
	Order           *Order     `json:"order,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// FulfillmentType returns the active fulfillment discriminant, defaulting to
// delivery when nothing has been selected yet (delivery fee shown up front).
func (s *CheckoutSession) FulfillmentType() FulfillmentType {
	if s.Fulfillment == nil {
		return FulfillmentTypeDelivery
	}
	return s.Fulfillment.Type
}
