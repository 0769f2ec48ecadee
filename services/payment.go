package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
)

var (
	cardDigitsRe = regexp.MustCompile(`^\d{13,19}$`)
	cvvRe        = regexp.MustCompile(`^\d{3,4}$`)
	expiryRe     = regexp.MustCompile(`^(\d{2})/(\d{2})$`)
)

// PaymentValidator runs the client-side pre-submission checks on payment
// data. The authoritative check (card actually chargeable) happens in the
// payment collaborator at submission time.
type PaymentValidator struct {
	Now func() time.Time
}

func NewPaymentValidator() *PaymentValidator {
	return &PaymentValidator{Now: time.Now}
}

// ValidateCard checks raw card input before it is exchanged for a token.
func (v *PaymentValidator) ValidateCard(card *models.CardInput) []models.ValidationFailure {
	if card == nil {
		return []models.ValidationFailure{
			models.NewFailure("payment.card", models.FailureFieldRequired, "Card details are required"),
		}
	}

	var failures []models.ValidationFailure

	number := stripWhitespace(card.Number)
	if !cardDigitsRe.MatchString(number) || !luhnValid(number) {
		failures = append(failures, models.NewFailure("payment.card.number", models.FailureInvalidCardNumber, "Card number is invalid"))
	}

	if strings.TrimSpace(card.HolderName) == "" {
		failures = append(failures, models.NewFailure("payment.card.holder_name", models.FailureFieldRequired, "Cardholder name is required"))
	}

	month, year, ok := parseExpiry(card.Expiry)
	if !ok {
		failures = append(failures, models.NewFailure("payment.card.expiry", models.FailureInvalidExpiry, "Expiry must be MM/YY"))
	} else if expired(month, year, v.Now()) {
		failures = append(failures, models.NewFailure("payment.card.expiry", models.FailureCardExpired, "Card has expired"))
	}

	if !cvvRe.MatchString(strings.TrimSpace(card.CVV)) {
		failures = append(failures, models.NewFailure("payment.card.cvv", models.FailureInvalidCVV, "CVV must be 3 or 4 digits"))
	}

	return failures
}

// ValidateSelection gates the Payment step transition. Cash on pickup is
// only allowed when fulfillment is pickup; card payments must already be
// tokenized by the time the customer moves forward.
func (v *PaymentValidator) ValidateSelection(sel *models.PaymentSelection, fulfillment models.FulfillmentType) []models.ValidationFailure {
	if sel == nil {
		return []models.ValidationFailure{
			models.NewFailure("payment", models.FailureNoPaymentSelected, "Choose a payment method"),
		}
	}

	switch sel.Method {
	case models.PaymentMethodCashOnPickup:
		if fulfillment != models.FulfillmentTypePickup {
			return []models.ValidationFailure{
				models.NewFailure("payment.method", models.FailurePaymentMethodNotAllowed, "Cash is only available for pickup orders"),
			}
		}
		return nil
	case models.PaymentMethodCard:
		if sel.Card == nil || sel.Card.Token == "" {
			return []models.ValidationFailure{
				models.NewFailure("payment.card", models.FailurePaymentNotTokenized, "Card details are required"),
			}
		}
		return nil
	default:
		return []models.ValidationFailure{
			models.NewFailure("payment.method", models.FailureNoPaymentSelected, "Choose a payment method"),
		}
	}
}

func stripWhitespace(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, s)
}

// luhnValid implements the standard mod-10 checksum: double every second
// digit from the right, subtract 9 when the result exceeds 9, and require
// the digit sum to be divisible by 10.
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if d < 0 || d > 9 {
			return false
		}
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func parseExpiry(expiry string) (month, year int, ok bool) {
	m := expiryRe.FindStringSubmatch(strings.TrimSpace(expiry))
	if m == nil {
		return 0, 0, false
	}
	month, _ = strconv.Atoi(m[1])
	year, _ = strconv.Atoi(m[2])
	if month < 1 || month > 12 {
		return 0, 0, false
	}
	return month, 2000 + year, true
}

// expired reports whether the card's end-of-month expiry is in the past.
func expired(month, year int, now time.Time) bool {
	// First instant of the month after expiry, in UTC. The card is valid
	// through the last moment of its expiry month.
	endOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return !now.Before(endOfMonth)
}
