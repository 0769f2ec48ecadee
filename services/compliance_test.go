package services_test

import (
	"testing"

	"github.com/WeedGo-Platform/checkout-service/models"
	"github.com/WeedGo-Platform/checkout-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplianceValidator_AgeNotConfirmed(t *testing.T) {
	v := services.NewComplianceValidator(19)

	failures := v.Validate(models.ComplianceState{AgeConfirmed: false})
	require.Len(t, failures, 1)
	assert.Equal(t, models.FailureAgeNotConfirmed, failures[0].Code)
	assert.Contains(t, failures[0].Message, "19")
}

func TestComplianceValidator_AgeConfirmed(t *testing.T) {
	v := services.NewComplianceValidator(19)
	assert.Empty(t, v.Validate(models.ComplianceState{AgeConfirmed: true}))
}

// Medical authorization is optional and never blocks.
func TestComplianceValidator_MedicalAuthorizationOptional(t *testing.T) {
	v := services.NewComplianceValidator(21)

	assert.Empty(t, v.Validate(models.ComplianceState{AgeConfirmed: true, MedicalAuthorization: ""}))
	assert.Empty(t, v.Validate(models.ComplianceState{AgeConfirmed: true, MedicalAuthorization: "MED-12345"}))
}

func TestComplianceValidator_MinimumAgeConfigurable(t *testing.T) {
	v := services.NewComplianceValidator(21)

	failures := v.Validate(models.ComplianceState{AgeConfirmed: false})
	require.Len(t, failures, 1)
	assert.Contains(t, failures[0].Message, "21")
}
