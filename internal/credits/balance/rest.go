// Package balance reads user credit balances from the external balance
// store. This module never writes balances.
package balance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"museforge/internal/credits"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
)

// RESTSource reads balances from the hosted balance API.
type RESTSource struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTSource(baseURL string, timeout time.Duration) *RESTSource {
	return &RESTSource{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *RESTSource) Balance(ctx context.Context, userID id.UserID) (credits.Balance, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/v1/balances/"+userID.String(), nil)
	if err != nil {
		return credits.Balance{}, fmt.Errorf("build balance request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return credits.Balance{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "balance service unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// New users without a balance row have zero credits.
		return credits.Balance{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return credits.Balance{}, dErrors.Newf(dErrors.CodeUnavailable, "balance service returned status %d", resp.StatusCode)
	}

	var balance credits.Balance
	if err := json.NewDecoder(resp.Body).Decode(&balance); err != nil {
		return credits.Balance{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "malformed balance response")
	}
	if balance.Credits < 0 {
		return credits.Balance{}, dErrors.Newf(dErrors.CodeUnavailable, "balance service returned negative balance %d", balance.Credits)
	}

	return balance, nil
}
