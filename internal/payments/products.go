package payments

import (
	"github.com/google/uuid"

	id "museforge/pkg/domain"
)

// Product is a purchasable credit pack.
type Product struct {
	ID         id.ProductID `json:"id"`
	Name       string       `json:"name"`
	Credits    int64        `json:"credits"`
	PriceCents int64        `json:"price_cents"`
}

// The catalog is static: the payments provider is the source of truth for
// prices, these IDs only key the purchase-link requests.
var catalog = []Product{
	{
		ID:         id.ProductID(uuid.MustParse("7f9c2f60-1f3a-4a7e-9a54-0d6a4f1c9b01")),
		Name:       "Starter Pack",
		Credits:    100,
		PriceCents: 499,
	},
	{
		ID:         id.ProductID(uuid.MustParse("7f9c2f60-1f3a-4a7e-9a54-0d6a4f1c9b02")),
		Name:       "Creator Pack",
		Credits:    550,
		PriceCents: 1999,
	},
	{
		ID:         id.ProductID(uuid.MustParse("7f9c2f60-1f3a-4a7e-9a54-0d6a4f1c9b03")),
		Name:       "Studio Pack",
		Credits:    1500,
		PriceCents: 4999,
	},
}

// Catalog returns the purchasable credit packs.
func Catalog() []Product {
	out := make([]Product, len(catalog))
	copy(out, catalog)
	return out
}
