// Package payments is the client for the external payment webhook service.
// It only creates checkout links; completed purchases are asserted by the
// user, no webhook is consumed here.
package payments

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

// Client creates purchase links against the payments API.
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

type createLinkRequest struct {
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
}

type createLinkResponse struct {
	URL string `json:"url"`
}

// CreateLink asks the payments service for a checkout URL. The caller opens
// it in a new browsing context; no balance is spent here.
func (c *Client) CreateLink(ctx context.Context, userID id.UserID, productID id.ProductID) (string, error) {
	body, err := json.Marshal(createLinkRequest{
		UserID:    userID.String(),
		ProductID: productID.String(),
	})
	if err != nil {
		return "", fmt.Errorf("marshal purchase link request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/purchase-links", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build purchase link request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "payments service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", dErrors.Newf(dErrors.CodeNotFound, "unknown product %q", productID.String())
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", dErrors.Newf(dErrors.CodeUnavailable, "payments service returned status %d", resp.StatusCode)
	}

	var link createLinkResponse
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed payments response")
	}
	if link.URL == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "payments service returned an empty link")
	}

	return link.URL, nil
}
