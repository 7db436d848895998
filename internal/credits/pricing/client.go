// Package pricing is the REST client for the external cost-lookup API.
package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
)

// Client looks up per-unit action costs. The API is keyed by user and item;
// the caller multiplies by unit count itself.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type costLookupRequest struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
}

type costLookupResponse struct {
	CostPerUnit int64 `json:"cost_per_unit"`
}

func (c *Client) CostPerUnit(ctx context.Context, userID id.UserID, itemID string) (int64, error) {
	body, err := json.Marshal(costLookupRequest{
		UserID: userID.String(),
		ItemID: itemID,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal cost lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/cost-lookup", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build cost lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "pricing service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return 0, dErrors.Newf(dErrors.CodeNotFound, "no price for item %q", itemID)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, dErrors.Newf(dErrors.CodeUnavailable, "pricing service returned status %d", resp.StatusCode)
	}

	var lookup costLookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&lookup); err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed pricing response")
	}
	if lookup.CostPerUnit < 0 {
		return 0, dErrors.Newf(dErrors.CodeUnavailable, "pricing service returned negative cost %d", lookup.CostPerUnit)
	}

	return lookup.CostPerUnit, nil
}
