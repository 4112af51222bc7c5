package matching_test

import (
	"testing"

	"github.com/ncardoz/cesta/internal/matching"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []domain.Product {
	return []domain.Product{
		{ID: "MP001", Name: "Smartphone Avanzado XZ100", Category: "Electrónica", Price: domain.Float(799.99), Currency: "USD", Stock: 10},
		{ID: "MP002", Name: "Auriculares ProSound", Category: "Electrónica", Price: domain.Float(149.50), Currency: "USD", Stock: 0},
		{ID: "MP003", Name: "Cafetera Espresso Automática", Category: "Hogar", Price: domain.Float(299.00), Currency: "USD", Stock: 5},
	}
}

func TestEnrich_ProductIDBeatsNameSimilarity(t *testing.T) {
	// A cart item with an exact ID must bind to that product even when
	// another product's name is a much closer textual match.
	catalog := []domain.Product{
		{ID: "A1", Name: "Cafetera Espresso", Category: "Hogar", Price: domain.Float(300), Stock: 3},
		{ID: "A2", Name: "Filtro de repuesto", Category: "Hogar", Price: domain.Float(10), Stock: 9},
	}
	items := []domain.InterestItem{
		{Source: domain.SourceAbandonedCart, ProductID: "A2", IdentifiedName: "cafetera espresso"},
	}

	enriched := matching.New().Enrich(catalog, items)
	require.Len(t, enriched, 1)
	require.NotNil(t, enriched[0].MarketplaceDetails)
	assert.Equal(t, "A2", enriched[0].MarketplaceDetails.ID)
}

func TestEnrich_StrongMatchOverridesEarlierWeakMatch(t *testing.T) {
	catalog := []domain.Product{
		{ID: "W1", Name: "Cafetera de viaje", Category: "Viajes", Price: domain.Float(40), Stock: 2},
		{ID: "S1", Name: "Cafetera Espresso Automática", Category: "Hogar", Price: domain.Float(299), Stock: 5},
	}
	items := []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cafetera", Category: "Hogar"},
	}

	enriched := matching.New().Enrich(catalog, items)
	require.NotNil(t, enriched[0].MarketplaceDetails)
	assert.Equal(t, "S1", enriched[0].MarketplaceDetails.ID)
}

func TestEnrich_FirstStrongMatchWins(t *testing.T) {
	catalog := []domain.Product{
		{ID: "S1", Name: "Cafetera Espresso", Category: "Hogar", Stock: 1},
		{ID: "S2", Name: "Cafetera Italiana", Category: "Hogar", Stock: 1},
	}
	items := []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cafetera", Category: "hogar"},
	}

	enriched := matching.New().Enrich(catalog, items)
	require.NotNil(t, enriched[0].MarketplaceDetails)
	assert.Equal(t, "S1", enriched[0].MarketplaceDetails.ID)
}

// Regression guard for the weak-match heuristic: a bare substring overlap
// is enough to bind an item to an unrelated product when nothing better
// exists. This behavior is intentional; change it only with a product
// decision and update this test deliberately.
func TestEnrich_WeakMatchBindsOnSubstringAlone(t *testing.T) {
	catalog := []domain.Product{
		{ID: "X1", Name: "Sofá cama", Category: "Hogar", Stock: 4},
	}
	items := []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cama", Category: "Deporte"},
	}

	enriched := matching.New().Enrich(catalog, items)
	require.NotNil(t, enriched[0].MarketplaceDetails)
	assert.Equal(t, "X1", enriched[0].MarketplaceDetails.ID)
}

func TestEnrich_BidirectionalNameContainment(t *testing.T) {
	catalog := catalogFixture()

	// Item name contained in product name.
	enriched := matching.New().Enrich(catalog, []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cafetera"},
	})
	require.NotNil(t, enriched[0].MarketplaceDetails)
	assert.Equal(t, "MP003", enriched[0].MarketplaceDetails.ID)

	// Product name contained in item name.
	enriched = matching.New().Enrich(catalog, []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "auriculares prosound inalámbricos"},
	})
	require.NotNil(t, enriched[0].MarketplaceDetails)
	assert.Equal(t, "MP002", enriched[0].MarketplaceDetails.ID)
}

func TestEnrich_EnrichmentFields(t *testing.T) {
	catalog := catalogFixture()
	enriched := matching.New().Enrich(catalog, []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cafetera"},
		{Source: domain.SourceSocial, IdentifiedName: "auriculares"},
	})

	require.Len(t, enriched, 2)

	// In stock.
	require.NotNil(t, enriched[0].Price)
	assert.Equal(t, 299.00, *enriched[0].Price)
	assert.Equal(t, "USD", enriched[0].Currency)
	assert.True(t, enriched[0].InStock)

	// Matched but stock == 0.
	assert.False(t, enriched[1].InStock)
}

func TestEnrich_NoMatchPassesThrough(t *testing.T) {
	enriched := matching.New().Enrich(catalogFixture(), []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "telescopio"},
	})
	require.Len(t, enriched, 1)
	assert.Nil(t, enriched[0].MarketplaceDetails)
	assert.Nil(t, enriched[0].Price)
	assert.False(t, enriched[0].InStock)
	assert.Equal(t, "telescopio", enriched[0].IdentifiedName)
}

func TestEnrich_EmptyCatalog(t *testing.T) {
	items := []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cafetera"},
		{Source: domain.SourceAbandonedCart, ProductID: "MP001"},
	}

	enriched := matching.New().Enrich(nil, items)
	require.Len(t, enriched, 2)
	for _, e := range enriched {
		assert.Nil(t, e.MarketplaceDetails)
		assert.False(t, e.InStock)
	}
}

func TestEnrich_Deterministic(t *testing.T) {
	catalog := catalogFixture()
	items := []domain.InterestItem{
		{Source: domain.SourceSocial, IdentifiedName: "cafetera"},
		{Source: domain.SourceAbandonedCart, ProductID: "MP001"},
		{Source: domain.SourceSocial, IdentifiedName: "nada"},
	}

	first := matching.New().Enrich(catalog, items)
	second := matching.New().Enrich(catalog, items)
	assert.Equal(t, first, second)
}
