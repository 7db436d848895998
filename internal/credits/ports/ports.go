// Package ports defines the collaborator interfaces of the credit flow.
package ports

import (
	"context"

	"museforge/internal/credits"
	id "museforge/pkg/domain"
	"museforge/pkg/platform/audit"
)

// PricingClient looks up the per-unit cost of a priced action for a user.
type PricingClient interface {
	CostPerUnit(ctx context.Context, userID id.UserID, itemID string) (int64, error)
}

// BalanceSource reads the user's current credit balance. This module never
// writes balances; spends happen inside the gated action itself.
type BalanceSource interface {
	Balance(ctx context.Context, userID id.UserID) (credits.Balance, error)
}

// PurchaseLinker creates a checkout URL for a credit product.
type PurchaseLinker interface {
	CreateLink(ctx context.Context, userID id.UserID, productID id.ProductID) (string, error)
}

// AuditPublisher records spend and purchase-link events.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
