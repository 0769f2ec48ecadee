package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
)

// TokenClient exchanges raw card data for an opaque token with the payment
// service. This is the only component that ever sees a full PAN; the token
// is what the session and the order request carry.
type TokenClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTokenClient(baseURL string) *TokenClient {
	return &TokenClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type tokenizeRequest struct {
	Number     string `json:"number"`
	HolderName string `json:"holder_name"`
	Expiry     string `json:"expiry"`
	CVV        string `json:"cvv"`
}

func (c *TokenClient) Tokenize(ctx context.Context, card *models.CardInput) (*models.PaymentToken, error) {
	body, err := json.Marshal(tokenizeRequest{
		Number:     card.Number,
		HolderName: card.HolderName,
		Expiry:     card.Expiry,
		CVV:        card.CVV,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tokens", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("payment service returned status %d", resp.StatusCode)
	}

	var token models.PaymentToken
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return &token, nil
}
