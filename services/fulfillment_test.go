package services_test

import (
	"testing"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
	"github.com/WeedGo-Platform/checkout-service/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canadianPostal = `^[A-Z]\d[A-Z]\s?\d[A-Z]\d$`

func fulfillmentValidatorAt(now time.Time) *services.FulfillmentValidator {
	v, err := services.NewFulfillmentValidator(canadianPostal)
	if err != nil {
		panic(err)
	}
	v.Now = func() time.Time { return now }
	return v
}

func deliverySelection() *models.FulfillmentSelection {
	return &models.FulfillmentSelection{
		Type: models.FulfillmentTypeDelivery,
		Delivery: &models.DeliveryDetails{
			Address: models.DeliveryAddress{
				Street1:    "420 Bloor St W",
				City:       "Toronto",
				Region:     "ON",
				PostalCode: "M5S 1X5",
			},
		},
	}
}

func pickupSelection(at time.Time) *models.FulfillmentSelection {
	return &models.FulfillmentSelection{
		Type: models.FulfillmentTypePickup,
		Pickup: &models.PickupDetails{
			LocationID:    "loc-1",
			ScheduledTime: at,
		},
	}
}

func TestValidateDelivery_Valid(t *testing.T) {
	v := fulfillmentValidatorAt(time.Now())
	assert.Empty(t, v.Validate(deliverySelection()))
}

func TestValidateDelivery_MissingFields(t *testing.T) {
	v := fulfillmentValidatorAt(time.Now())

	sel := deliverySelection()
	sel.Delivery.Address = models.DeliveryAddress{}
	failures := v.Validate(sel)

	require.Len(t, failures, 4)
	for _, f := range failures {
		assert.Equal(t, models.FailureFieldRequired, f.Code)
	}
}

func TestValidateDelivery_PostalCodeFormat(t *testing.T) {
	v := fulfillmentValidatorAt(time.Now())

	for _, postal := range []string{"M5S1X5", "m5s 1x5", "M5S  1X5 "} {
		sel := deliverySelection()
		sel.Delivery.Address.PostalCode = postal
		if postal == "M5S  1X5 " {
			assert.Contains(t, failureCodes(v.Validate(sel)), models.FailureInvalidPostalCode, "postal %q", postal)
			continue
		}
		// Normalization handles missing space and lowercase.
		assert.Empty(t, v.Validate(sel), "postal %q", postal)
	}

	sel := deliverySelection()
	sel.Delivery.Address.PostalCode = "90210"
	assert.Contains(t, failureCodes(v.Validate(sel)), models.FailureInvalidPostalCode)
}

func TestValidatePickup_Valid(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	v := fulfillmentValidatorAt(now)
	assert.Empty(t, v.Validate(pickupSelection(now.Add(2*time.Hour))))
}

func TestValidatePickup_PastSlotRejected(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	v := fulfillmentValidatorAt(now)

	failures := v.Validate(pickupSelection(now.Add(-time.Minute)))
	assert.Contains(t, failureCodes(failures), models.FailurePickupTimeInPast)
}

func TestValidatePickup_MissingLocation(t *testing.T) {
	now := time.Now()
	v := fulfillmentValidatorAt(now)

	sel := pickupSelection(now.Add(time.Hour))
	sel.Pickup.LocationID = ""
	assert.Contains(t, failureCodes(v.Validate(sel)), models.FailureFieldRequired)
}

// Stale fields from the inactive branch must not affect validation.
func TestValidate_IgnoresInactiveBranch(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	v := fulfillmentValidatorAt(now)

	// Pickup selection carrying a broken leftover delivery address.
	sel := pickupSelection(now.Add(time.Hour))
	sel.Delivery = &models.DeliveryDetails{Address: models.DeliveryAddress{PostalCode: "nope"}}
	assert.Empty(t, v.Validate(sel))

	// Delivery selection carrying a past pickup slot.
	sel = deliverySelection()
	sel.Pickup = &models.PickupDetails{LocationID: "loc-1", ScheduledTime: now.Add(-time.Hour)}
	assert.Empty(t, v.Validate(sel))
}

func TestValidate_NoSelection(t *testing.T) {
	v := fulfillmentValidatorAt(time.Now())
	assert.Contains(t, failureCodes(v.Validate(nil)), models.FailureNoFulfillmentSelected)
}

func TestValidateContact(t *testing.T) {
	v := fulfillmentValidatorAt(time.Now())

	assert.Empty(t, v.ValidateContact(models.CustomerContact{Name: "Dana Green", Email: "dana@example.com"}))

	failures := v.ValidateContact(models.CustomerContact{})
	assert.Len(t, failures, 2)

	failures = v.ValidateContact(models.CustomerContact{Name: "Dana", Email: "not-an-email"})
	assert.Contains(t, failureCodes(failures), models.FailureInvalidEmail)
}
