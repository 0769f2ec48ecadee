package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/WeedGo-Platform/checkout-service/models"
)

// PickupClient lists pickup locations from the store service.
type PickupClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPickupClient(baseURL string) *PickupClient {
	return &PickupClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *PickupClient) GetPickupLocations(ctx context.Context) ([]models.PickupLocation, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/locations", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("store service returned status %d", resp.StatusCode)
	}

	var locations []models.PickupLocation
	if err := json.NewDecoder(resp.Body).Decode(&locations); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}
	return locations, nil
}
