package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

type memCatalog struct {
	products []domain.Product
	err      error
}

func (m memCatalog) Products(context.Context) ([]domain.Product, error) {
	return m.products, m.err
}

type memSignals struct {
	saves []ports.RawSave
	carts []ports.CartItem
	err   error
}

func (m memSignals) SocialSaves(context.Context) ([]ports.RawSave, error) {
	return m.saves, m.err
}

func (m memSignals) AbandonedCartItems(context.Context) ([]ports.CartItem, error) {
	return m.carts, nil
}

func fixtureCatalog() []domain.Product {
	return []domain.Product{
		{ID: "MP001", Name: "Smartphone Avanzado XZ100", Category: "Electrónica",
			Price: domain.Float(799.99), Currency: "USD", Stock: 10},
		{ID: "MP002", Name: "Auriculares ProSound", Category: "Electrónica",
			Price: domain.Float(149.50), Currency: "USD", Stock: 0},
		{ID: "MP003", Name: "Cafetera Espresso", Category: "Hogar",
			Price: domain.Float(120.00), Currency: "USD", Stock: 5},
	}
}

func fixtureSignals() memSignals {
	return memSignals{
		saves: []ports.RawSave{
			{Caption: "smartphone avanzado"},
			{Caption: "una cafetera espresso para casa"},
		},
		carts: []ports.CartItem{{ProductID: "MP002", Quantity: 1}},
	}
}

func TestPipeline_EndToEndWithinBudget(t *testing.T) {
	p, err := New(Config{
		Catalog: memCatalog{products: fixtureCatalog()},
		Signals: fixtureSignals(),
	})
	require.NoError(t, err)

	final, err := p.Run(context.Background(), domain.Float(1000), nil)
	require.NoError(t, err)

	require.Len(t, final.Wishlist, 3)
	require.Len(t, final.Enriched, 3)
	require.NotNil(t, final.Plan)

	// Cart item is out of stock; the two social items fit under 1000.
	require.Len(t, final.Plan.ItemsToBuy, 2)
	assert.InDelta(t, 919.99, final.Plan.EstimatedTotalCost, 0.001)
	assert.Equal(t, "USD", final.Plan.Currency)
	require.Len(t, final.Plan.RecommendationsForLater, 1)
	assert.Equal(t, domain.ReasonOutOfStock, final.Plan.RecommendationsForLater[0].Reason)
	assert.Nil(t, final.SearchResults)
}

func TestPipeline_TightBudgetDefersExpensiveItem(t *testing.T) {
	p, err := New(Config{
		Catalog: memCatalog{products: fixtureCatalog()},
		Signals: fixtureSignals(),
	})
	require.NoError(t, err)

	final, err := p.Run(context.Background(), domain.Float(200), nil)
	require.NoError(t, err)

	// Only the cheap cafetera fits; the smartphone is deferred.
	require.Len(t, final.Plan.ItemsToBuy, 1)
	assert.Equal(t, "MP003", final.Plan.ItemsToBuy[0].MarketplaceDetails.ID)
	assert.LessOrEqual(t, final.Plan.EstimatedTotalCost, 200.0)

	var reasons []string
	for _, rec := range final.Plan.RecommendationsForLater {
		reasons = append(reasons, rec.Reason)
	}
	assert.Contains(t, reasons, domain.ReasonExceedsBudget)
}

func TestPipeline_EmptyCatalogDegradesToUnmatched(t *testing.T) {
	p, err := New(Config{
		Catalog: memCatalog{},
		Signals: fixtureSignals(),
	})
	require.NoError(t, err)

	final, err := p.Run(context.Background(), nil, nil)
	require.NoError(t, err)

	assert.Empty(t, final.Plan.ItemsToBuy)
	// Social items become manual-search recommendations; the cart item has
	// no name at all and is silently dropped.
	require.Len(t, final.Plan.RecommendationsForLater, 2)
	for _, rec := range final.Plan.RecommendationsForLater {
		assert.Equal(t, domain.ReasonNotFound, rec.Reason)
	}
}

func TestPipeline_SearchCriteriaRoutesThroughSearchNode(t *testing.T) {
	p, err := New(Config{
		Catalog: memCatalog{products: fixtureCatalog()},
		Signals: memSignals{},
	})
	require.NoError(t, err)

	final, err := p.Run(context.Background(), nil, map[string]any{"query": "cafetera"})
	require.NoError(t, err)

	require.Len(t, final.SearchResults, 1)
	assert.Equal(t, "MP003", final.SearchResults[0]["id"])
}

func TestPipeline_CatalogLoadFailureAborts(t *testing.T) {
	p, err := New(Config{
		Catalog: memCatalog{err: errors.New("backend down")},
		Signals: memSignals{},
	})
	require.NoError(t, err)

	_, err = p.Run(context.Background(), nil, nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "loading catalog")
}

func TestPipeline_RequiresSources(t *testing.T) {
	_, err := New(Config{Signals: memSignals{}})
	assert.Error(t, err)

	_, err = New(Config{Catalog: memCatalog{}})
	assert.Error(t, err)
}
