package services_test

import (
	"testing"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
	"github.com/WeedGo-Platform/checkout-service/services"

	"github.com/stretchr/testify/assert"
)

func paymentValidatorAt(now time.Time) *services.PaymentValidator {
	v := services.NewPaymentValidator()
	v.Now = func() time.Time { return now }
	return v
}

func validCard() *models.CardInput {
	return &models.CardInput{
		Number:     "4242 4242 4242 4242",
		HolderName: "Dana Green",
		Expiry:     "12/30",
		CVV:        "123",
	}
}

func failureCodes(failures []models.ValidationFailure) []string {
	codes := make([]string, 0, len(failures))
	for _, f := range failures {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestValidateCard_Valid(t *testing.T) {
	v := paymentValidatorAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	assert.Empty(t, v.ValidateCard(validCard()))
}

func TestValidateCard_LuhnChecksum(t *testing.T) {
	v := paymentValidatorAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	card := validCard()
	card.Number = "4242424242424242"
	assert.Empty(t, v.ValidateCard(card))

	card.Number = "4242424242424241"
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureInvalidCardNumber)
}

func TestValidateCard_NumberLength(t *testing.T) {
	v := paymentValidatorAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	card := validCard()
	card.Number = "424242424242" // 12 digits
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureInvalidCardNumber)

	card.Number = "4242abcd42424242"
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureInvalidCardNumber)
}

func TestValidateCard_ExpiredCard(t *testing.T) {
	v := paymentValidatorAt(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	card := validCard()
	card.Expiry = "01/20"
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureCardExpired)
}

// A card is valid through the last moment of its expiry month.
func TestValidateCard_ExpiryEndOfMonth(t *testing.T) {
	card := validCard()
	card.Expiry = "03/25"

	v := paymentValidatorAt(time.Date(2025, 3, 31, 23, 59, 59, 0, time.UTC))
	assert.Empty(t, v.ValidateCard(card))

	v = paymentValidatorAt(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureCardExpired)
}

func TestValidateCard_MalformedExpiry(t *testing.T) {
	v := paymentValidatorAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	for _, expiry := range []string{"13/30", "00/30", "1/30", "2025-12", "12-30", ""} {
		card := validCard()
		card.Expiry = expiry
		assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureInvalidExpiry, "expiry %q", expiry)
	}
}

func TestValidateCard_CVVAndHolder(t *testing.T) {
	v := paymentValidatorAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))

	card := validCard()
	card.CVV = "12"
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureInvalidCVV)

	card = validCard()
	card.CVV = "12345"
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureInvalidCVV)

	card = validCard()
	card.CVV = "1234"
	assert.Empty(t, v.ValidateCard(card))

	card = validCard()
	card.HolderName = "   "
	assert.Contains(t, failureCodes(v.ValidateCard(card)), models.FailureFieldRequired)
}

func TestValidateSelection_CashOnPickup(t *testing.T) {
	v := services.NewPaymentValidator()
	cash := &models.PaymentSelection{Method: models.PaymentMethodCashOnPickup}

	assert.Empty(t, v.ValidateSelection(cash, models.FulfillmentTypePickup))

	failures := v.ValidateSelection(cash, models.FulfillmentTypeDelivery)
	assert.Contains(t, failureCodes(failures), models.FailurePaymentMethodNotAllowed)
}

func TestValidateSelection_CardRequiresToken(t *testing.T) {
	v := services.NewPaymentValidator()

	tokenized := &models.PaymentSelection{
		Method: models.PaymentMethodCard,
		Card:   &models.PaymentToken{Token: "tok_abc", Last4: "4242"},
	}
	assert.Empty(t, v.ValidateSelection(tokenized, models.FulfillmentTypeDelivery))

	bare := &models.PaymentSelection{Method: models.PaymentMethodCard}
	assert.Contains(t, failureCodes(v.ValidateSelection(bare, models.FulfillmentTypeDelivery)), models.FailurePaymentNotTokenized)
}

func TestValidateSelection_NoSelection(t *testing.T) {
	v := services.NewPaymentValidator()
	assert.Contains(t, failureCodes(v.ValidateSelection(nil, models.FulfillmentTypePickup)), models.FailureNoPaymentSelected)
}
