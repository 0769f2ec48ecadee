package services

import (
	"context"

	"github.com/WeedGo-Platform/checkout-service/models"

	"go.uber.org/zap"
)

// OrderSubmitter converts a finalized session into a single order-creation
// request. Duplicate-submit suppression is the state machine's job, not
// this component's: it just builds and sends.
type OrderSubmitter struct {
	orders OrderAPI
	logger *zap.Logger
}

func NewOrderSubmitter(orders OrderAPI, logger *zap.Logger) *OrderSubmitter {
	return &OrderSubmitter{orders: orders, logger: logger}
}

// Submit builds the order request from the session and calls the order API
// with the session's idempotency key.
func (s *OrderSubmitter) Submit(ctx context.Context, session *models.CheckoutSession) (*models.Order, *models.SubmissionError) {
	req := buildOrderRequest(session)

	order, subErr := s.orders.CreateOrder(ctx, req, session.IdempotencyKey)
	if subErr != nil {
		s.logger.Warn("Order submission failed",
			zap.String("session_id", session.ID),
			zap.String("kind", string(subErr.Kind)),
			zap.String("message", subErr.Message),
		)
		return nil, subErr
	}

	s.logger.Info("Order created",
		zap.String("session_id", session.ID),
		zap.String("order_number", order.OrderNumber),
	)
	return order, nil
}

// buildOrderRequest sends product ids and quantities only; the backend
// recomputes authoritative prices and compares against ClientTotal.
func buildOrderRequest(session *models.CheckoutSession) *models.CreateOrderRequest {
	items := make([]models.OrderItem, 0, len(session.Cart.Items))
	for _, line := range session.Cart.Items {
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}

	req := &models.CreateOrderRequest{
		SessionID:   session.ID,
		Items:       items,
		Contact:     session.Contact,
		TipAmount:   session.Breakdown.TipAmount,
		ClientTotal: session.Breakdown.Total,
	}

	if session.Fulfillment != nil {
		req.Fulfillment = *session.Fulfillment
	}
	if session.Payment != nil {
		req.Method = session.Payment.Method
		if session.Payment.Card != nil {
			req.PaymentRef = session.Payment.Card.Token
		}
	}
	if session.Discount != nil {
		req.DiscountCode = session.Discount.Code
	}

	return req
}
