package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// PromotionClient validates promo codes with the promotion service.
type PromotionClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPromotionClient(baseURL string) *PromotionClient {
	return &PromotionClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type validatePromoRequest struct {
	Code      string          `json:"code"`
	CartTotal decimal.Decimal `json:"cart_total"`
}

// ValidatePromoCode asks the promotion service whether a code applies to the
// given subtotal. An invalid code is a normal response, not an error.
func (c *PromotionClient) ValidatePromoCode(ctx context.Context, code string, subtotal decimal.Decimal) (*PromoResult, error) {
	body, err := json.Marshal(validatePromoRequest{Code: code, CartTotal: subtotal})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/coupons/validate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("promotion service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("promotion service returned status %d", resp.StatusCode)
	}

	var result PromoResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode promo response: %w", err)
	}
	return &result, nil
}
