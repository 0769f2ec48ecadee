package controllers

import (
	"context"
	"net/http"

	"github.com/WeedGo-Platform/checkout-service/middleware"
	"github.com/WeedGo-Platform/checkout-service/models"
	"github.com/WeedGo-Platform/checkout-service/services"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var validate = validator.New()

// CheckoutController exposes the checkout engine to the UI surfaces. Every
// mutating response includes the current step, price breakdown and failure
// list so clients can render without a follow-up read.
type CheckoutController struct {
	Service *services.CheckoutService
	Pickup  services.PickupAPI
	Logger  *zap.Logger
}

func NewCheckoutController(service *services.CheckoutService, pickup services.PickupAPI, logger *zap.Logger) *CheckoutController {
	return &CheckoutController{
		Service: service,
		Pickup:  pickup,
		Logger:  logger,
	}
}

// SessionResponse is the render model returned on every call.
type SessionResponse struct {
	SessionID      string                       `json:"session_id"`
	Step           models.Step                  `json:"step"`
	Cart           models.Cart                  `json:"cart"`
	Breakdown      models.PriceBreakdown        `json:"breakdown"`
	Fulfillment    *models.FulfillmentSelection `json:"fulfillment,omitempty"`
	Compliance     models.ComplianceState       `json:"compliance"`
	Contact        models.CustomerContact       `json:"contact"`
	Payment        *models.PaymentSelection     `json:"payment,omitempty"`
	Discount       *models.AppliedDiscount      `json:"discount,omitempty"`
	Tip            models.TipSelection          `json:"tip"`
	Failures       []models.ValidationFailure   `json:"failures,omitempty"`
	LastSubmission *models.SubmissionError      `json:"last_submission,omitempty"`
	Order          *models.Order                `json:"order,omitempty"`
}

func toResponse(s *models.CheckoutSession) SessionResponse {
	return SessionResponse{
		SessionID:      s.ID,
		Step:           s.Step,
		Cart:           s.Cart,
		Breakdown:      s.Breakdown,
		Fulfillment:    s.Fulfillment,
		Compliance:     s.Compliance,
		Contact:        s.Contact,
		Payment:        s.Payment,
		Discount:       s.Discount,
		Tip:            s.Tip,
		Failures:       s.Failures,
		LastSubmission: s.LastSubmission,
		Order:          s.Order,
	}
}

// StartCheckout begins a session from the current cart.
func (cc *CheckoutController) StartCheckout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, svcErr := cc.Service.Start(c.Request.Context(), userID)
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusCreated, toResponse(session))
}

// GetCheckout returns the active session.
func (cc *CheckoutController) GetCheckout(c *gin.Context) {
	cc.run(c, cc.Service.Get)
}

type fulfillmentRequest struct {
	Type     models.FulfillmentType  `json:"type" validate:"required,oneof=delivery pickup"`
	Delivery *models.DeliveryDetails `json:"delivery,omitempty"`
	Pickup   *models.PickupDetails   `json:"pickup,omitempty"`
}

// SetFulfillment records the delivery or pickup selection.
func (cc *CheckoutController) SetFulfillment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req fulfillmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fulfillment type"})
		return
	}

	session, svcErr := cc.Service.SetFulfillment(c.Request.Context(), userID, models.FulfillmentSelection{
		Type:     req.Type,
		Delivery: req.Delivery,
		Pickup:   req.Pickup,
	})
	cc.respond(c, session, svcErr)
}

// SetCompliance records the age confirmation and optional medical
// authorization.
func (cc *CheckoutController) SetCompliance(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var state models.ComplianceState
	if err := c.ShouldBindJSON(&state); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	session, svcErr := cc.Service.SetCompliance(c.Request.Context(), userID, state)
	cc.respond(c, session, svcErr)
}

type contactRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// SetContact records customer contact info.
func (cc *CheckoutController) SetContact(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a valid email are required"})
		return
	}

	session, svcErr := cc.Service.SetContact(c.Request.Context(), userID, models.CustomerContact{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	cc.respond(c, session, svcErr)
}

type tipRequest struct {
	Type  models.TipType  `json:"type" validate:"required,oneof=none percentage fixed"`
	Value decimal.Decimal `json:"value"`
}

// SetTip records the tip selection.
func (cc *CheckoutController) SetTip(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req tipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tip type"})
		return
	}
	if req.Value.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tip cannot be negative"})
		return
	}

	session, svcErr := cc.Service.SetTip(c.Request.Context(), userID, models.TipSelection{
		Type:  req.Type,
		Value: req.Value,
	})
	cc.respond(c, session, svcErr)
}

type paymentRequest struct {
	Method models.PaymentMethod `json:"method" validate:"required,oneof=card cash_on_pickup"`
	Card   *models.CardInput    `json:"card,omitempty"`
}

// SetPayment records the payment selection. Card data is validated and
// tokenized in the same call; it is never stored raw.
func (cc *CheckoutController) SetPayment(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
		return
	}

	session, svcErr := cc.Service.SetPayment(c.Request.Context(), userID, req.Method, req.Card)
	cc.respond(c, session, svcErr)
}

type discountRequest struct {
	Code string `json:"code" validate:"required,min=3,max=64"`
}

// ApplyDiscount validates and applies a promo code.
func (cc *CheckoutController) ApplyDiscount(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "promo code is required"})
		return
	}

	session, svcErr := cc.Service.ApplyDiscountCode(c.Request.Context(), userID, req.Code)
	cc.respond(c, session, svcErr)
}

// ClearDiscount removes the applied promo code.
func (cc *CheckoutController) ClearDiscount(c *gin.Context) {
	cc.run(c, cc.Service.ClearDiscountCode)
}

// Advance attempts the forward step transition.
func (cc *CheckoutController) Advance(c *gin.Context) {
	cc.run(c, cc.Service.Advance)
}

// Back moves one step backwards.
func (cc *CheckoutController) Back(c *gin.Context) {
	cc.run(c, cc.Service.Back)
}

// Submit confirms the order. Submission failures still return the session
// body so the UI can land the customer on the right step.
func (cc *CheckoutController) Submit(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, svcErr := cc.Service.Submit(c.Request.Context(), userID)
	if svcErr != nil {
		payload := gin.H{"error": svcErr.Message}
		if session != nil {
			payload["session"] = toResponse(session)
		}
		c.JSON(svcErr.StatusCode, payload)
		return
	}
	c.JSON(http.StatusOK, toResponse(session))
}

// AbandonCheckout discards the session.
func (cc *CheckoutController) AbandonCheckout(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if svcErr := cc.Service.Abandon(c.Request.Context(), userID); svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "checkout abandoned"})
}

// GetPickupLocations proxies the pickup-location list for the fulfillment
// step.
func (cc *CheckoutController) GetPickupLocations(c *gin.Context) {
	locations, err := cc.Pickup.GetPickupLocations(c.Request.Context())
	if err != nil {
		cc.Logger.Error("Failed to fetch pickup locations", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not load pickup locations"})
		return
	}
	c.JSON(http.StatusOK, locations)
}

// run wraps the body-less handlers that only need the user id.
func (cc *CheckoutController) run(c *gin.Context, fn func(ctx context.Context, userID string) (*models.CheckoutSession, *services.ServiceError)) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	session, svcErr := fn(c.Request.Context(), userID)
	cc.respond(c, session, svcErr)
}

func (cc *CheckoutController) respond(c *gin.Context, session *models.CheckoutSession, svcErr *services.ServiceError) {
	if svcErr != nil {
		c.JSON(svcErr.StatusCode, gin.H{"error": svcErr.Message})
		return
	}
	c.JSON(http.StatusOK, toResponse(session))
}
