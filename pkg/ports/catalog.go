package ports

import (
	"context"

	"github.com/ncardoz/cesta/pkg/domain"
)

// CatalogSource provides the ordered marketplace catalog. Order matters:
// matching tie-breaks and filter results follow it, so implementations
// must return products in a stable, source-defined order.
type CatalogSource interface {
	// Products returns the full catalog. An empty catalog is a valid,
	// degraded condition, not an error.
	Products(ctx context.Context) ([]domain.Product, error)
}

// RawSave is one unprocessed social save (an Instagram save or a
// Pinterest pin): free text plus the original payload.
type RawSave struct {
	Caption string
	Details map[string]any
}

// CartItem is one line of an abandoned cart.
type CartItem struct {
	ProductID string
	Quantity  int
	Details   map[string]any
}

// SignalSource provides the raw interest signals the pipeline ingests.
type SignalSource interface {
	SocialSaves(ctx context.Context) ([]RawSave, error)
	AbandonedCartItems(ctx context.Context) ([]CartItem, error)
}
