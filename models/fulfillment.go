package models

import "time"

// FulfillmentType is the mutually exclusive order-completion mode.
type FulfillmentType string

const (
	FulfillmentTypeDelivery FulfillmentType = "delivery"
	FulfillmentTypePickup   FulfillmentType = "pickup"
)

// DeliveryAddress is the destination for a delivery order.
type DeliveryAddress struct {
	Street1    string `json:"street1"`
	Street2    string `json:"street2,omitempty"`
	City       string `json:"city"`
	Region     string `json:"region"`
	PostalCode string `json:"postal_code"`
}

// DeliveryDetails holds the delivery branch of a fulfillment selection.
type DeliveryDetails struct {
	Address       DeliveryAddress `json:"address"`
	Instructions  string          `json:"instructions,omitempty"`
	ScheduledTime *time.Time      `json:"scheduled_time,omitempty"`
}

// PickupDetails holds the pickup branch of a fulfillment selection.
type PickupDetails struct {
	LocationID    string    `json:"location_id"`
	ScheduledTime time.Time `json:"scheduled_time"`
}

// FulfillmentSelection is a tagged variant: exactly one of Delivery or
// Pickup is populated, matching Type. Switching the type discards the other
// branch's fields.
type FulfillmentSelection struct {
	Type     FulfillmentType  `json:"type"`
	Delivery *DeliveryDetails `json:"delivery,omitempty"`
	Pickup   *PickupDetails   `json:"pickup,omitempty"`
}

// PickupLocation is returned by the pickup-location service.
type PickupLocation struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}
