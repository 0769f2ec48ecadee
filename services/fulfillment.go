package services

import (
	"regexp"
	"strings"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// FulfillmentValidator checks the active fulfillment branch. The postal-code
// format is jurisdiction configuration; Now is injectable for tests.
type FulfillmentValidator struct {
	postalCodeRe *regexp.Regexp
	Now          func() time.Time
}

func NewFulfillmentValidator(postalCodePattern string) (*FulfillmentValidator, error) {
	re, err := regexp.Compile(postalCodePattern)
	if err != nil {
		return nil, err
	}
	return &FulfillmentValidator{
		postalCodeRe: re,
		Now:          time.Now,
	}, nil
}

// Validate evaluates only the branch matching the selection's discriminant.
// Fields belonging to the inactive branch are ignored even if present, so
// stale form state from a prior selection cannot block or pass validation.
func (v *FulfillmentValidator) Validate(sel *models.FulfillmentSelection) []models.ValidationFailure {
	if sel == nil {
		return []models.ValidationFailure{
			models.NewFailure("fulfillment", models.FailureNoFulfillmentSelected, "Choose delivery or pickup"),
		}
	}

	switch sel.Type {
	case models.FulfillmentTypeDelivery:
		return v.validateDelivery(sel.Delivery)
	case models.FulfillmentTypePickup:
		return v.validatePickup(sel.Pickup)
	default:
		return []models.ValidationFailure{
			models.NewFailure("fulfillment", models.FailureNoFulfillmentSelected, "Choose delivery or pickup"),
		}
	}
}

func (v *FulfillmentValidator) validateDelivery(d *models.DeliveryDetails) []models.ValidationFailure {
	if d == nil {
		return []models.ValidationFailure{
			models.NewFailure("delivery", models.FailureFieldRequired, "Delivery address is required"),
		}
	}

	var failures []models.ValidationFailure

	if strings.TrimSpace(d.Address.Street1) == "" {
		failures = append(failures, models.NewFailure("delivery.address.street1", models.FailureFieldRequired, "Street address is required"))
	}
	if strings.TrimSpace(d.Address.City) == "" {
		failures = append(failures, models.NewFailure("delivery.address.city", models.FailureFieldRequired, "City is required"))
	}
	if strings.TrimSpace(d.Address.Region) == "" {
		failures = append(failures, models.NewFailure("delivery.address.region", models.FailureFieldRequired, "Province or region is required"))
	}

	postal := strings.ToUpper(strings.TrimSpace(d.Address.PostalCode))
	if postal == "" {
		failures = append(failures, models.NewFailure("delivery.address.postal_code", models.FailureFieldRequired, "Postal code is required"))
	} else if !v.postalCodeRe.MatchString(postal) {
		failures = append(failures, models.NewFailure("delivery.address.postal_code", models.FailureInvalidPostalCode, "Postal code format is invalid"))
	}

	return failures
}

func (v *FulfillmentValidator) validatePickup(p *models.PickupDetails) []models.ValidationFailure {
	if p == nil {
		return []models.ValidationFailure{
			models.NewFailure("pickup", models.FailureFieldRequired, "Pickup details are required"),
		}
	}

	var failures []models.ValidationFailure

	if strings.TrimSpace(p.LocationID) == "" {
		failures = append(failures, models.NewFailure("pickup.location_id", models.FailureFieldRequired, "Select a pickup location"))
	}
	if p.ScheduledTime.IsZero() {
		failures = append(failures, models.NewFailure("pickup.scheduled_time", models.FailureFieldRequired, "Select a pickup time"))
	} else if p.ScheduledTime.Before(v.Now()) {
		failures = append(failures, models.NewFailure("pickup.scheduled_time", models.FailurePickupTimeInPast, "Pickup time cannot be in the past"))
	}

	return failures
}

// ValidateContact checks the customer contact fields collected alongside
// fulfillment. They travel with the order request, so they are gated at the
// same transition.
func (v *FulfillmentValidator) ValidateContact(contact models.CustomerContact) []models.ValidationFailure {
	var failures []models.ValidationFailure

	if strings.TrimSpace(contact.Name) == "" {
		failures = append(failures, models.NewFailure("contact.name", models.FailureFieldRequired, "Name is required"))
	}

	email := strings.TrimSpace(contact.Email)
	if email == "" {
		failures = append(failures, models.NewFailure("contact.email", models.FailureFieldRequired, "Email is required"))
	} else if !emailRe.MatchString(email) {
		failures = append(failures, models.NewFailure("contact.email", models.FailureInvalidEmail, "Email address is invalid"))
	}

	return failures
}
