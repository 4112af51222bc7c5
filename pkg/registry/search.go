package registry

import (
	"context"

	"github.com/ncardoz/cesta/pkg/catalog"
	"github.com/ncardoz/cesta/pkg/domain"
)

// CatalogSearchName is the tool name the conversation controller
// dispatches product searches to.
const CatalogSearchName = "catalog_search"

// NewCatalogSearch builds the catalog_search tool over a catalog snapshot.
// The input map carries optional filter criteria (query, category, brand,
// min_price, max_price, min_rating, in_stock); results keep catalog order.
func NewCatalogSearch(products []domain.Product) ToolFunc {
	return func(ctx context.Context, input map[string]any) ([]map[string]any, error) {
		criteria, err := catalog.DecodeCriteria(input)
		if err != nil {
			return nil, err
		}
		matches := catalog.Filter(products, criteria)
		rows := make([]map[string]any, 0, len(matches))
		for _, p := range matches {
			rows = append(rows, productRow(p))
		}
		return rows, nil
	}
}

func productRow(p domain.Product) map[string]any {
	row := map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"stock": p.Stock,
	}
	if p.Category != "" {
		row["category"] = p.Category
	}
	if p.Brand != "" {
		row["brand"] = p.Brand
	}
	if p.Price != nil {
		row["price"] = *p.Price
	}
	if p.Currency != "" {
		row["currency"] = p.Currency
	}
	if p.Rating != nil {
		row["rating"] = *p.Rating
	}
	if p.Description != "" {
		row["description"] = p.Description
	}
	if len(p.Tags) > 0 {
		row["tags"] = p.Tags
	}
	return row
}
