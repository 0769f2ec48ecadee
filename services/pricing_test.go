package services_test

import (
	"testing"

	"github.com/WeedGo-Platform/checkout-service/models"
	"github.com/WeedGo-Platform/checkout-service/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testPricing() services.PricingConfig {
	return services.PricingConfig{
		TaxRate:               dec("0.13"),
		DeliveryFee:           dec("5.99"),
		FreeDeliveryThreshold: dec("50.00"),
		ServiceFee:            dec("0.00"),
	}
}

func cartWith(lines ...models.CartLine) *models.Cart {
	return &models.Cart{UserID: "user-1", Items: lines}
}

func line(productID, unitPrice string, qty int) models.CartLine {
	return models.CartLine{ProductID: productID, UnitPrice: dec(unitPrice), Quantity: qty}
}

func noTip() models.TipSelection {
	return models.TipSelection{Type: models.TipTypeNone}
}

// The $45 delivery order with SAVE10: discount 4.50, tax on 40.50 at 13% is
// 5.265 rounded half-up to 5.27, delivery 5.99 below the 50.00 threshold.
func TestComputeBreakdown_DeliveryWithPercentageDiscount(t *testing.T) {
	cart := cartWith(line("p1", "15.00", 3))
	discount := &models.AppliedDiscount{
		Code:          "SAVE10",
		Type:          models.DiscountTypePercentage,
		Value:         dec("10"),
		MinOrderValue: dec("0"),
	}

	b := services.ComputeBreakdown(cart, discount, noTip(), models.FulfillmentTypeDelivery, testPricing())

	assert.True(t, b.Subtotal.Equal(dec("45.00")), "subtotal: %s", b.Subtotal)
	assert.True(t, b.DiscountAmount.Equal(dec("4.50")), "discount: %s", b.DiscountAmount)
	assert.True(t, b.TaxAmount.Equal(dec("5.27")), "tax: %s", b.TaxAmount)
	assert.True(t, b.DeliveryFee.Equal(dec("5.99")), "delivery: %s", b.DeliveryFee)
	assert.True(t, b.Total.Equal(dec("51.76")), "total: %s", b.Total)
}

func TestComputeBreakdown_TotalReconciles(t *testing.T) {
	cases := []struct {
		name        string
		cart        *models.Cart
		discount    *models.AppliedDiscount
		tip         models.TipSelection
		fulfillment models.FulfillmentType
	}{
		{"plain delivery", cartWith(line("p1", "12.49", 2)), nil, noTip(), models.FulfillmentTypeDelivery},
		{"pickup with tip", cartWith(line("p1", "30.00", 1)), nil, models.TipSelection{Type: models.TipTypeFixed, Value: dec("3.00")}, models.FulfillmentTypePickup},
		{"percent tip", cartWith(line("p1", "19.99", 3)), nil, models.TipSelection{Type: models.TipTypePercentage, Value: dec("15")}, models.FulfillmentTypeDelivery},
		{"flat discount", cartWith(line("p1", "25.00", 2)), &models.AppliedDiscount{Code: "FLAT5", Type: models.DiscountTypeFlat, Value: dec("5.00")}, noTip(), models.FulfillmentTypeDelivery},
		{"single cheap item", cartWith(line("p1", "0.99", 1)), nil, noTip(), models.FulfillmentTypeDelivery},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := services.ComputeBreakdown(tc.cart, tc.discount, tc.tip, tc.fulfillment, testPricing())

			expected := b.Subtotal.
				Sub(b.DiscountAmount).
				Add(b.TaxAmount).
				Add(b.DeliveryFee).
				Add(b.ServiceFee).
				Add(b.TipAmount)
			assert.True(t, b.Total.Equal(expected), "total %s != reconstructed %s", b.Total, expected)
			assert.False(t, b.DiscountAmount.GreaterThan(b.Subtotal))
			assert.False(t, b.TaxAmount.IsNegative())
			assert.False(t, b.DeliveryFee.IsNegative())
			assert.False(t, b.TipAmount.IsNegative())
		})
	}
}

func TestComputeBreakdown_FreeDeliveryAtThreshold(t *testing.T) {
	b := services.ComputeBreakdown(cartWith(line("p1", "50.00", 1)), nil, noTip(), models.FulfillmentTypeDelivery, testPricing())
	assert.True(t, b.DeliveryFee.IsZero(), "delivery fee at threshold: %s", b.DeliveryFee)

	b = services.ComputeBreakdown(cartWith(line("p1", "49.99", 1)), nil, noTip(), models.FulfillmentTypeDelivery, testPricing())
	assert.True(t, b.DeliveryFee.Equal(dec("5.99")))
}

func TestComputeBreakdown_PickupNeverChargesDelivery(t *testing.T) {
	for _, subtotal := range []string{"5.00", "30.00", "500.00"} {
		b := services.ComputeBreakdown(cartWith(line("p1", subtotal, 1)), nil, noTip(), models.FulfillmentTypePickup, testPricing())
		assert.True(t, b.DeliveryFee.IsZero(), "pickup delivery fee for subtotal %s: %s", subtotal, b.DeliveryFee)
	}
}

func TestComputeBreakdown_EmptyCartIsAllZero(t *testing.T) {
	b := services.ComputeBreakdown(&models.Cart{}, nil, noTip(), models.FulfillmentTypeDelivery, testPricing())
	assert.True(t, b.Subtotal.IsZero())
	assert.True(t, b.Total.IsZero())
	assert.True(t, b.DeliveryFee.IsZero())
	assert.True(t, b.ServiceFee.IsZero())
}

func TestComputeBreakdown_DiscountDropsBelowMinimum(t *testing.T) {
	discount := &models.AppliedDiscount{
		Code:          "BIG40",
		Type:          models.DiscountTypePercentage,
		Value:         dec("40"),
		MinOrderValue: dec("40.00"),
	}

	// Meets the minimum.
	b := services.ComputeBreakdown(cartWith(line("p1", "45.00", 1)), discount, noTip(), models.FulfillmentTypeDelivery, testPricing())
	assert.True(t, b.DiscountAmount.Equal(dec("18.00")))

	// Cart shrank below the minimum: the sticky code no longer applies.
	b = services.ComputeBreakdown(cartWith(line("p1", "35.00", 1)), discount, noTip(), models.FulfillmentTypeDelivery, testPricing())
	assert.True(t, b.DiscountAmount.IsZero())
}

func TestComputeBreakdown_FlatDiscountClampedToSubtotal(t *testing.T) {
	discount := &models.AppliedDiscount{
		Code:  "HUGE",
		Type:  models.DiscountTypeFlat,
		Value: dec("100.00"),
	}

	b := services.ComputeBreakdown(cartWith(line("p1", "20.00", 1)), discount, noTip(), models.FulfillmentTypePickup, testPricing())
	assert.True(t, b.DiscountAmount.Equal(dec("20.00")))
	assert.False(t, b.Total.IsNegative())
}

// Tip is a percentage of the pre-tax subtotal and stays out of the tax base.
func TestComputeBreakdown_TipExcludedFromTax(t *testing.T) {
	withTip := services.ComputeBreakdown(
		cartWith(line("p1", "40.00", 1)), nil,
		models.TipSelection{Type: models.TipTypePercentage, Value: dec("20")},
		models.FulfillmentTypePickup, testPricing(),
	)
	withoutTip := services.ComputeBreakdown(
		cartWith(line("p1", "40.00", 1)), nil, noTip(),
		models.FulfillmentTypePickup, testPricing(),
	)

	require.True(t, withTip.TipAmount.Equal(dec("8.00")))
	assert.True(t, withTip.TaxAmount.Equal(withoutTip.TaxAmount), "tip changed the tax amount")
}

// Repricing is a pure function of current inputs: pricing delivery, then
// pickup, then delivery again lands on the exact same breakdown.
func TestComputeBreakdown_FulfillmentSwitchIsIdempotent(t *testing.T) {
	cart := cartWith(line("p1", "22.50", 2))

	first := services.ComputeBreakdown(cart, nil, noTip(), models.FulfillmentTypeDelivery, testPricing())
	_ = services.ComputeBreakdown(cart, nil, noTip(), models.FulfillmentTypePickup, testPricing())
	again := services.ComputeBreakdown(cart, nil, noTip(), models.FulfillmentTypeDelivery, testPricing())

	assert.Equal(t, first, again)
}

func TestComputeBreakdown_ServiceFeeApplied(t *testing.T) {
	cfg := testPricing()
	cfg.ServiceFee = dec("1.50")

	b := services.ComputeBreakdown(cartWith(line("p1", "10.00", 1)), nil, noTip(), models.FulfillmentTypePickup, cfg)
	assert.True(t, b.ServiceFee.Equal(dec("1.50")))
	assert.True(t, b.Total.Equal(dec("12.80")), "total: %s", b.Total) // 10 + 1.30 tax + 1.50
}
