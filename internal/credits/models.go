// Package credits implements the credit-gated action flow: cost quotes,
// balance decisions, and the confirm-or-purchase branch every priced action
// goes through.
package credits

import "fmt"

// State is the explicit flow state. Illegal combinations of the old boolean
// flags are unrepresentable: a flow is in exactly one state at a time.
type State string

const (
	StateIdle              State = "idle"
	StateCostFetching      State = "cost_fetching"
	StateConfirmPending    State = "confirm_pending"
	StateInsufficientFunds State = "insufficient_funds"
	StateExecuting         State = "executing"
	StateCompleted         State = "completed"
	StateFailed            State = "failed"
)

// Quote is an ephemeral cost snapshot for one priced action. It lives for
// the duration of the confirmation dialog and is discarded on completion or
// cancel.
//
// Invariant: Total == CostPerUnit * UnitCount.
type Quote struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
	CostPerUnit int64  `json:"cost_per_unit"`
	UnitCount   int    `json:"unit_count"`
	Total       int64  `json:"total"`
}

// NewQuote builds a quote from a per-unit cost. A unit count below one is
// treated as one.
func NewQuote(itemID, description string, costPerUnit int64, unitCount int) Quote {
	if unitCount < 1 {
		unitCount = 1
	}
	return Quote{
		ItemID:      itemID,
		Description: description,
		CostPerUnit: costPerUnit,
		UnitCount:   unitCount,
		Total:       costPerUnit * int64(unitCount),
	}
}

// Breakdown renders the user-facing cost decomposition: "10 × 3 = 30" for
// multi-unit quotes, the bare total otherwise.
func (q Quote) Breakdown() string {
	if q.UnitCount > 1 {
		return fmt.Sprintf("%d × %d = %d", q.CostPerUnit, q.UnitCount, q.Total)
	}
	return fmt.Sprintf("%d", q.Total)
}

// Balance is the user's credit balance, read-only from this module's
// perspective. Spends and grants happen in the external balance store.
type Balance struct {
	Credits          int64  `json:"credits"`
	SubscriptionTier string `json:"subscription_tier"`
}

// Decide is the pure branch point of the flow: insufficient funds iff the
// balance cannot cover the quoted total. No side effects.
func Decide(quote Quote, balance Balance) State {
	if balance.Credits < quote.Total {
		return StateInsufficientFunds
	}
	return StateConfirmPending
}
