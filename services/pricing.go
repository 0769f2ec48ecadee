package services

import (
	"github.com/WeedGo-Platform/checkout-service/config"
	"github.com/WeedGo-Platform/checkout-service/models"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// PricingConfig carries the jurisdiction fee and tax rules used to price a
// cart. All values come from service configuration.
type PricingConfig struct {
	TaxRate               decimal.Decimal
	DeliveryFee           decimal.Decimal
	FreeDeliveryThreshold decimal.Decimal
	ServiceFee            decimal.Decimal
}

func PricingFromConfig(cfg config.Config) PricingConfig {
	return PricingConfig{
		TaxRate:               cfg.TaxRate,
		DeliveryFee:           cfg.DeliveryFee,
		FreeDeliveryThreshold: cfg.FreeDeliveryThreshold,
		ServiceFee:            cfg.ServiceFee,
	}
}

// ComputeBreakdown prices a cart snapshot from scratch. It is a pure
// function: every repricing recomputes the whole breakdown rather than
// patching the previous one, so switching fulfillment back and forth can
// never accumulate drift.
//
// Rules:
//   - discount applies only while the current subtotal still meets the
//     code's minimum; percentage discounts are taken off the subtotal,
//     flat ones are clamped to it
//   - tax is charged on the post-discount subtotal only, never on fees or
//     tip, rounded half-up to cents
//   - delivery fee is zero for pickup, and waived for delivery at or above
//     the free-delivery threshold
//   - tip is a percentage of the pre-tax subtotal or a fixed amount
func ComputeBreakdown(
	cart *models.Cart,
	discount *models.AppliedDiscount,
	tip models.TipSelection,
	fulfillment models.FulfillmentType,
	cfg PricingConfig,
) models.PriceBreakdown {
	if cart.IsEmpty() {
		return models.ZeroBreakdown()
	}

	subtotal := cart.Subtotal().Round(2)

	discountAmount := discountAmount(subtotal, discount)
	taxAmount := subtotal.Sub(discountAmount).Mul(cfg.TaxRate).Round(2)
	deliveryFee := deliveryFee(subtotal, fulfillment, cfg)
	serviceFee := cfg.ServiceFee.Round(2)
	tipAmount := tipAmount(subtotal, tip)

	total := subtotal.
		Sub(discountAmount).
		Add(taxAmount).
		Add(deliveryFee).
		Add(serviceFee).
		Add(tipAmount)

	return models.PriceBreakdown{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		TaxAmount:      taxAmount,
		DeliveryFee:    deliveryFee,
		ServiceFee:     serviceFee,
		TipAmount:      tipAmount,
		Total:          total,
	}
}

func discountAmount(subtotal decimal.Decimal, discount *models.AppliedDiscount) decimal.Decimal {
	if discount == nil {
		return decimal.Zero
	}
	// The code was validated once by the promotion service; its minimum is
	// re-checked here so a cart that shrank below it loses the discount.
	if subtotal.LessThan(discount.MinOrderValue) {
		return decimal.Zero
	}

	var amount decimal.Decimal
	switch discount.Type {
	case models.DiscountTypePercentage:
		amount = subtotal.Mul(discount.Value).Div(oneHundred).Round(2)
	case models.DiscountTypeFlat:
		amount = discount.Value.Round(2)
	default:
		return decimal.Zero
	}

	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		return subtotal
	}
	return amount
}

func deliveryFee(subtotal decimal.Decimal, fulfillment models.FulfillmentType, cfg PricingConfig) decimal.Decimal {
	if fulfillment == models.FulfillmentTypePickup {
		return decimal.Zero
	}
	if subtotal.GreaterThanOrEqual(cfg.FreeDeliveryThreshold) {
		return decimal.Zero
	}
	return cfg.DeliveryFee.Round(2)
}

func tipAmount(subtotal decimal.Decimal, tip models.TipSelection) decimal.Decimal {
	switch tip.Type {
	case models.TipTypePercentage:
		amount := subtotal.Mul(tip.Value).Div(oneHundred).Round(2)
		if amount.IsNegative() {
			return decimal.Zero
		}
		return amount
	case models.TipTypeFixed:
		if tip.Value.IsNegative() {
			return decimal.Zero
		}
		return tip.Value.Round(2)
	default:
		return decimal.Zero
	}
}
