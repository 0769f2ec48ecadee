package services

import (
	"context"
	"net/http"
	"time"

	"github.com/WeedGo-Platform/checkout-service/kafka"
	"github.com/WeedGo-Platform/checkout-service/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// idempotencyTTL is how long a completed submission's order number is kept
// for replay after the session itself is gone.
const idempotencyTTL = 24 * time.Hour

// submitRecoveryAfter is how long a session may sit in Submitting before a
// retry or abandon is allowed to take over. It matches the order client's
// timeout: past it, no first attempt can still be in flight.
const submitRecoveryAfter = 15 * time.Second

// ServiceError represents a typed error with an HTTP status code.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// CheckoutService is the state machine driving a checkout session through
// Cart -> Fulfillment -> Payment -> Review -> Submitting -> Confirmed.
//
// Field setters never validate or reprice on their own except where pricing
// inputs change (fulfillment type, tip, discount); validators run when a
// forward transition is attempted, and the whole breakdown is recomputed
// from scratch on every entry to Review.
type CheckoutService struct {
	sessions    SessionStore
	carts       CartAPI
	promotions  PromotionAPI
	tokens      TokenAPI
	submitter   *OrderSubmitter
	producer    kafka.ProducerAPI
	pricing     PricingConfig
	compliance  *ComplianceValidator
	fulfillment *FulfillmentValidator
	payment     *PaymentValidator
	logger      *zap.Logger
}

func NewCheckoutService(
	sessions SessionStore,
	carts CartAPI,
	promotions PromotionAPI,
	tokens TokenAPI,
	submitter *OrderSubmitter,
	producer kafka.ProducerAPI,
	pricing PricingConfig,
	compliance *ComplianceValidator,
	fulfillment *FulfillmentValidator,
	payment *PaymentValidator,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		sessions:    sessions,
		carts:       carts,
		promotions:  promotions,
		tokens:      tokens,
		submitter:   submitter,
		producer:    producer,
		pricing:     pricing,
		compliance:  compliance,
		fulfillment: fulfillment,
		payment:     payment,
		logger:      logger,
	}
}

// Start begins a checkout session from the user's current cart. A session
// already mid-submission cannot be replaced.
func (s *CheckoutService) Start(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	existing, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, s.storeError(err)
	}
	if existing != nil && existing.Step == models.StepSubmitting {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "A submission is already in progress"}
	}

	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to fetch cart", zap.String("user_id", userID), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Could not load your cart"}
	}
	if cart.IsEmpty() {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Cart is empty"}
	}

	now := time.Now()
	session := &models.CheckoutSession{
		ID:             uuid.NewString(),
		UserID:         userID,
		IdempotencyKey: uuid.NewString(),
		Step:           models.StepCart,
		Cart:           *cart,
		Tip:            models.TipSelection{Type: models.TipTypeNone},
		CreatedAt:      now,
	}
	s.reprice(session)

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, s.storeError(err)
	}

	s.logger.Info("Checkout session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID),
	)
	return session, nil
}

// Get returns the user's active session for rendering.
func (s *CheckoutService) Get(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	return s.load(ctx, userID)
}

// SetFulfillment records the fulfillment selection. Switching variant
// discards the other branch's fields, and the price is recomputed because
// the delivery fee depends on the fulfillment type.
func (s *CheckoutService) SetFulfillment(ctx context.Context, userID string, sel models.FulfillmentSelection) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	switch sel.Type {
	case models.FulfillmentTypeDelivery:
		sel.Pickup = nil
	case models.FulfillmentTypePickup:
		sel.Delivery = nil
	default:
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unknown fulfillment type"}
	}

	session.Fulfillment = &sel
	s.reprice(session)
	return s.save(ctx, session)
}

// SetCompliance records the compliance answers. The gate is enforced on the
// next forward transition, not here.
func (s *CheckoutService) SetCompliance(ctx context.Context, userID string, state models.ComplianceState) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	session.Compliance = state
	return s.save(ctx, session)
}

// SetContact records customer contact fields.
func (s *CheckoutService) SetContact(ctx context.Context, userID string, contact models.CustomerContact) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	session.Contact = contact
	return s.save(ctx, session)
}

// SetTip records the tip selection and reprices.
func (s *CheckoutService) SetTip(ctx context.Context, userID string, tip models.TipSelection) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	session.Tip = tip
	s.reprice(session)
	return s.save(ctx, session)
}

// SetPayment records the payment selection. Card input is validated and
// exchanged for a token immediately so raw card data never reaches the
// session store; validation failures are attached inline without changing
// the step.
func (s *CheckoutService) SetPayment(ctx context.Context, userID string, method models.PaymentMethod, card *models.CardInput) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	switch method {
	case models.PaymentMethodCashOnPickup:
		session.Payment = &models.PaymentSelection{Method: models.PaymentMethodCashOnPickup}
		session.Failures = nil

	case models.PaymentMethodCard:
		failures := s.payment.ValidateCard(card)
		if len(failures) > 0 {
			session.Failures = failures
			return s.save(ctx, session)
		}

		token, err := s.tokens.Tokenize(ctx, card)
		if err != nil {
			s.logger.Error("Card tokenization failed", zap.String("session_id", session.ID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Could not process card, please try again"}
		}

		session.Payment = &models.PaymentSelection{
			Method:        models.PaymentMethodCard,
			Card:          token,
			SaveForFuture: card.SaveForFuture,
		}
		session.Failures = nil

	default:
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Unknown payment method"}
	}

	return s.save(ctx, session)
}

// ApplyDiscountCode validates a promo code with the promotion service
// against the current subtotal and, if accepted, keeps it on the session.
func (s *CheckoutService) ApplyDiscountCode(ctx context.Context, userID, code string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	result, err := s.promotions.ValidatePromoCode(ctx, code, session.Cart.Subtotal())
	if err != nil {
		s.logger.Error("Promo code validation failed", zap.String("code", code), zap.Error(err))
		return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Could not validate promo code"}
	}
	if !result.Valid || result.Discount == nil {
		msg := result.Message
		if msg == "" {
			msg = "Promo code is not valid"
		}
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: msg}
	}

	session.Discount = result.Discount
	s.reprice(session)
	return s.save(ctx, session)
}

// ClearDiscountCode removes any applied discount.
func (s *CheckoutService) ClearDiscountCode(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	session.Discount = nil
	s.reprice(session)
	return s.save(ctx, session)
}

// Advance attempts the forward transition for the current step. On a
// validation failure the session stays where it is with the failure list
// attached for inline rendering.
func (s *CheckoutService) Advance(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	switch session.Step {
	case models.StepCart:
		// Re-snapshot the cart so quantity edits made since the session
		// started are picked up before pricing is locked in.
		cart, err := s.carts.GetCart(ctx, session.UserID)
		if err != nil {
			s.logger.Error("Failed to refresh cart", zap.String("session_id", session.ID), zap.Error(err))
			return nil, &ServiceError{StatusCode: http.StatusBadGateway, Message: "Could not load your cart"}
		}
		session.Cart = *cart
		if session.Cart.IsEmpty() {
			session.Failures = []models.ValidationFailure{
				models.NewFailure("cart", models.FailureCartEmpty, "Your cart is empty"),
			}
			s.reprice(session)
			return s.save(ctx, session)
		}
		session.Failures = nil
		session.Step = models.StepFulfillment
		s.reprice(session)

	case models.StepFulfillment:
		failures := s.fulfillment.Validate(session.Fulfillment)
		failures = append(failures, s.fulfillment.ValidateContact(session.Contact)...)
		failures = append(failures, s.compliance.Validate(session.Compliance)...)
		if len(failures) > 0 {
			session.Failures = failures
			return s.save(ctx, session)
		}
		session.Failures = nil
		session.Step = models.StepPayment

	case models.StepPayment:
		failures := s.payment.ValidateSelection(session.Payment, session.FulfillmentType())
		if len(failures) > 0 {
			session.Failures = failures
			return s.save(ctx, session)
		}
		session.Failures = nil
		session.Step = models.StepReview
		s.reprice(session)

	case models.StepReview:
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Confirm your order to continue"}

	default:
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Checkout cannot advance from this step"}
	}

	return s.save(ctx, session)
}

// Back moves one step backwards without running any validators. Validators
// run again only when the customer attempts to move forward.
func (s *CheckoutService) Back(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, svcErr := s.loadMutable(ctx, userID)
	if svcErr != nil {
		return nil, svcErr
	}

	switch session.Step {
	case models.StepFulfillment:
		session.Step = models.StepCart
	case models.StepPayment:
		session.Step = models.StepFulfillment
	case models.StepReview:
		session.Step = models.StepPayment
	default:
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Cannot go back from this step"}
	}

	session.Failures = nil
	return s.save(ctx, session)
}

// Submit confirms the order. It is idempotent: a confirmed session returns
// its order again, and the idempotency record catches replays after the
// order was created but the session missed the confirmation. A session stuck
// in Submitting (crashed process, lost response) is checked against the
// record first and, once the order client's timeout has passed, may be
// retried with the same key.
func (s *CheckoutService) Submit(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch session.Step {
	case models.StepConfirmed:
		return session, nil
	case models.StepReview, models.StepSubmitting:
		// handled below
	default:
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Checkout is not ready to submit"}
	}

	// A previous attempt may have created the order without the session
	// recording it (crash between create and save). Replay, don't recreate.
	// This must run before the in-progress guard or a crashed submission
	// could never recover.
	if orderNumber, idemErr := s.sessions.GetIdempotency(ctx, session.IdempotencyKey); idemErr == nil && orderNumber != "" {
		return s.confirm(ctx, session, replayedOrder(session, orderNumber), true)
	}

	if session.Step == models.StepSubmitting && !submissionStale(session) {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "A submission is already in progress"}
	}

	// Final repricing before the total is attached to the request.
	s.reprice(session)
	session.Failures = nil
	session.LastSubmission = nil
	session.Step = models.StepSubmitting
	now := time.Now()
	session.SubmitStartedAt = &now
	if saveErr := s.sessions.SaveSession(ctx, session); saveErr != nil {
		return nil, s.storeError(saveErr)
	}

	order, subErr := s.submitter.Submit(ctx, session)
	if subErr != nil {
		return s.handleSubmissionFailure(ctx, session, subErr)
	}

	return s.confirm(ctx, session, order, false)
}

// submissionStale reports whether an in-flight submission has outlived the
// order client's timeout. The session-stable idempotency key makes taking
// it over safe: the backend deduplicates on the key.
func submissionStale(session *models.CheckoutSession) bool {
	if session.SubmitStartedAt == nil {
		return true
	}
	return time.Since(*session.SubmitStartedAt) > submitRecoveryAfter
}

// replayedOrder reconstructs the order from session state when the backend
// already created it under this idempotency key.
func replayedOrder(session *models.CheckoutSession, orderNumber string) *models.Order {
	order := &models.Order{
		OrderNumber: orderNumber,
		Status:      "confirmed",
		Breakdown:   session.Breakdown,
		Contact:     session.Contact,
		CreatedAt:   time.Now(),
	}
	if session.Fulfillment != nil {
		order.Fulfillment = *session.Fulfillment
	}
	if session.Payment != nil && session.Payment.Card != nil {
		order.PaymentRef = session.Payment.Card.Token
	}
	return order
}

// Abandon discards the session. While a submission may still be in flight
// the session is kept, so an abandoned-then-retried checkout cannot create a
// duplicate order; once the order client's timeout has passed the session
// can be abandoned like any other.
func (s *CheckoutService) Abandon(ctx context.Context, userID string) *ServiceError {
	session, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if session.Step == models.StepSubmitting && !submissionStale(session) {
		return &ServiceError{StatusCode: http.StatusConflict, Message: "Submission in progress, cannot abandon"}
	}

	if delErr := s.sessions.DeleteSession(ctx, userID); delErr != nil {
		return s.storeError(delErr)
	}

	s.logger.Info("Checkout session abandoned", zap.String("session_id", session.ID))
	return nil
}

// confirm finalizes the session around a created order. On a replay the
// order already exists: the idempotency record is in place and its
// checkout.completed event was published by the original attempt.
func (s *CheckoutService) confirm(ctx context.Context, session *models.CheckoutSession, order *models.Order, replayed bool) (*models.CheckoutSession, *ServiceError) {
	session.Order = order
	session.Step = models.StepConfirmed
	session.Failures = nil
	session.LastSubmission = nil
	session.SubmitStartedAt = nil

	if !replayed {
		if err := s.sessions.SetIdempotency(ctx, session.IdempotencyKey, order.OrderNumber, idempotencyTTL); err != nil {
			s.logger.Error("Failed to record idempotency key", zap.String("session_id", session.ID), zap.Error(err))
		}
	}
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, s.storeError(err)
	}

	if !replayed {
		s.publishEvent(ctx, session, "checkout.completed", "")
	}
	return session, nil
}

// handleSubmissionFailure routes the session back to the step the customer
// can act on: payment declines return to Payment, out-of-stock returns to
// Cart with the offending line flagged, everything else stays on Review so
// a retry reuses the same idempotency key.
func (s *CheckoutService) handleSubmissionFailure(ctx context.Context, session *models.CheckoutSession, subErr *models.SubmissionError) (*models.CheckoutSession, *ServiceError) {
	session.LastSubmission = subErr
	session.SubmitStartedAt = nil

	switch subErr.Kind {
	case models.SubmissionPaymentDeclined:
		session.Step = models.StepPayment
	case models.SubmissionInventoryUnavailable:
		session.Step = models.StepCart
		if cart, err := s.carts.GetCart(ctx, session.UserID); err == nil {
			session.Cart = *cart
			s.reprice(session)
		}
		if subErr.ProductID != "" {
			session.Failures = []models.ValidationFailure{
				models.NewFailure(subErr.ProductID, models.FailureItemUnavailable, subErr.Message),
			}
		}
	default:
		session.Step = models.StepReview
	}

	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, s.storeError(err)
	}

	s.publishEvent(ctx, session, "checkout.failed", string(subErr.Kind))

	return session, &ServiceError{StatusCode: statusForSubmission(subErr.Kind), Message: subErr.Message}
}

func statusForSubmission(kind models.SubmissionErrorKind) int {
	switch kind {
	case models.SubmissionPaymentDeclined:
		return http.StatusPaymentRequired
	case models.SubmissionInventoryUnavailable:
		return http.StatusConflict
	case models.SubmissionValidationRejected:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusServiceUnavailable
	}
}

// reprice recomputes the whole breakdown from current session state.
func (s *CheckoutService) reprice(session *models.CheckoutSession) {
	session.Breakdown = ComputeBreakdown(
		&session.Cart,
		session.Discount,
		session.Tip,
		session.FulfillmentType(),
		s.pricing,
	)
}

func (s *CheckoutService) publishEvent(ctx context.Context, session *models.CheckoutSession, event, reason string) {
	evt := models.CheckoutEvent{
		Event:     event,
		SessionID: session.ID,
		UserID:    session.UserID,
		Total:     session.Breakdown.Total,
		Reason:    reason,
		Timestamp: time.Now(),
	}
	if session.Order != nil {
		evt.OrderNumber = session.Order.OrderNumber
	}
	if err := s.producer.SendCheckoutEvent(ctx, evt); err != nil {
		s.logger.Warn("Failed to publish checkout event", zap.String("event", event), zap.Error(err))
	}
}

func (s *CheckoutService) load(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, err := s.sessions.GetSession(ctx, userID)
	if err != nil {
		return nil, s.storeError(err)
	}
	if session == nil {
		return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "No active checkout session"}
	}
	return session, nil
}

// loadMutable loads the session and refuses mutation once the session is in
// flight or terminal.
func (s *CheckoutService) loadMutable(ctx context.Context, userID string) (*models.CheckoutSession, *ServiceError) {
	session, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.Step == models.StepSubmitting || session.Step == models.StepConfirmed {
		return nil, &ServiceError{StatusCode: http.StatusConflict, Message: "Checkout can no longer be modified"}
	}
	return session, nil
}

func (s *CheckoutService) save(ctx context.Context, session *models.CheckoutSession) (*models.CheckoutSession, *ServiceError) {
	if err := s.sessions.SaveSession(ctx, session); err != nil {
		return nil, s.storeError(err)
	}
	return session, nil
}

func (s *CheckoutService) storeError(err error) *ServiceError {
	s.logger.Error("Session store error", zap.Error(err))
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Checkout is temporarily unavailable"}
}
