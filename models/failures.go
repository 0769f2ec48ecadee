package models

// Validation failure codes surfaced to the UI. Validators never return Go
// errors for bad user input; they return lists of these.
const (
	FailureAgeNotConfirmed         = "AgeNotConfirmed"
	FailureFieldRequired           = "FieldRequired"
	FailureInvalidPostalCode       = "InvalidPostalCode"
	FailurePickupTimeInPast        = "PickupTimeInPast"
	FailureInvalidCardNumber       = "InvalidCardNumber"
	FailureCardExpired             = "CardExpired"
	FailureInvalidExpiry           = "InvalidExpiry"
	FailureInvalidCVV              = "InvalidCVV"
	FailureInvalidEmail            = "InvalidEmail"
	FailurePaymentMethodNotAllowed = "PaymentMethodNotAllowed"
	FailurePaymentNotTokenized     = "PaymentNotTokenized"
	FailureCartEmpty               = "CartEmpty"
	FailureItemUnavailable         = "ItemUnavailable"
	FailureNoFulfillmentSelected   = "NoFulfillmentSelected"
	FailureNoPaymentSelected       = "NoPaymentSelected"
)

// ValidationFailure is a single field-level failure attached to the current
// step for inline rendering.
type ValidationFailure struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewFailure(field, code, message string) ValidationFailure {
	return ValidationFailure{Field: field, Code: code, Message: message}
}
