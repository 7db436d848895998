package flow

import (
	"fmt"
	"sync"

	"museforge/internal/credits/ports"
	id "museforge/pkg/domain"
)

// Manager hands out one Flow per user, creating it lazily on first use.
// Flows are kept for the lifetime of the process; their footprint is a few
// words each.
type Manager struct {
	pricing   ports.PricingClient
	balances  ports.BalanceSource
	purchases ports.PurchaseLinker
	opts      []Option

	mu    sync.Mutex
	flows map[id.UserID]*Flow
}

func NewManager(pricing ports.PricingClient, balances ports.BalanceSource, purchases ports.PurchaseLinker, opts ...Option) (*Manager, error) {
	if pricing == nil {
		return nil, fmt.Errorf("pricing client is required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance source is required")
	}
	if purchases == nil {
		return nil, fmt.Errorf("purchase linker is required")
	}

	return &Manager{
		pricing:   pricing,
		balances:  balances,
		purchases: purchases,
		opts:      opts,
		flows:     make(map[id.UserID]*Flow),
	}, nil
}

// FlowFor returns the user's flow, creating it if this is the user's first
// priced action.
func (m *Manager) FlowFor(userID id.UserID) (*Flow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f, ok := m.flows[userID]; ok {
		return f, nil
	}

	f, err := New(userID, m.pricing, m.balances, m.purchases, m.opts...)
	if err != nil {
		return nil, err
	}
	m.flows[userID] = f
	return f, nil
}
