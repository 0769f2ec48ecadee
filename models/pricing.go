package models

import "github.com/shopspring/decimal"

// DiscountType represents the kind of discount a promo code provides.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFlat       DiscountType = "flat"
)

// AppliedDiscount is the result of validating a promo code with the
// promotion service. It stays on the session until cleared, but its minimum
// order value is re-checked against the current subtotal on every repricing.
type AppliedDiscount struct {
	Code          string          `json:"code"`
	Type          DiscountType    `json:"type"`
	Value         decimal.Decimal `json:"value"` // percentage (0-100) or flat amount
	MinOrderValue decimal.Decimal `json:"min_order_value"`
}

// TipType represents how the customer chose the tip.
type TipType string

const (
	TipTypeNone       TipType = "none"
	TipTypePercentage TipType = "percentage"
	TipTypeFixed      TipType = "fixed"
)

// TipSelection is either a percentage of the pre-tax subtotal or a custom
// fixed amount. Tips are excluded from the tax base.
type TipSelection struct {
	Type  TipType         `json:"type"`
	Value decimal.Decimal `json:"value"`
}

// PriceBreakdown is derived from the session on every repricing and never
// patched incrementally.
//
// Invariant: Total = Subtotal - DiscountAmount + TaxAmount + DeliveryFee +
// ServiceFee + TipAmount, every component >= 0 and DiscountAmount <= Subtotal.
type PriceBreakdown struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	DeliveryFee    decimal.Decimal `json:"delivery_fee"`
	ServiceFee     decimal.Decimal `json:"service_fee"`
	TipAmount      decimal.Decimal `json:"tip_amount"`
	Total          decimal.Decimal `json:"total"`
}

// ZeroBreakdown returns an all-zero breakdown, used for empty carts.
func ZeroBreakdown() PriceBreakdown {
	return PriceBreakdown{
		Subtotal:       decimal.Zero,
		DiscountAmount: decimal.Zero,
		TaxAmount:      decimal.Zero,
		DeliveryFee:    decimal.Zero,
		ServiceFee:     decimal.Zero,
		TipAmount:      decimal.Zero,
		Total:          decimal.Zero,
	}
}
