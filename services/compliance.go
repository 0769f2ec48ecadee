package services

import (
	"fmt"

	"github.com/WeedGo-Platform/checkout-service/models"
)

// ComplianceValidator gates checkout on jurisdiction rules. It is a pure
// check: no side effects, and optional fields (medical authorization) never
// produce failures.
type ComplianceValidator struct {
	MinimumAge int
}

func NewComplianceValidator(minimumAge int) *ComplianceValidator {
	return &ComplianceValidator{MinimumAge: minimumAge}
}

// Validate returns the failure list for the given compliance state. The age
// confirmation is non-bypassable regardless of any other field validity.
func (v *ComplianceValidator) Validate(state models.ComplianceState) []models.ValidationFailure {
	var failures []models.ValidationFailure

	if !state.AgeConfirmed {
		failures = append(failures, models.NewFailure(
			"age_confirmed",
			models.FailureAgeNotConfirmed,
			fmt.Sprintf("You must confirm you are at least %d years old", v.MinimumAge),
		))
	}

	return failures
}
