// Package catalog implements pure predicate-based product search. All
// supplied criteria are ANDed; catalog order is preserved in the result.
package catalog

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/ncardoz/cesta/pkg/domain"
)

// Criteria are the optional filters for a search. Nil fields are not
// applied.
type Criteria struct {
	Query     string   `json:"query,omitempty" mapstructure:"query"`
	Category  string   `json:"category,omitempty" mapstructure:"category"`
	Brand     string   `json:"brand,omitempty" mapstructure:"brand"`
	MinPrice  *float64 `json:"min_price,omitempty" mapstructure:"min_price"`
	MaxPrice  *float64 `json:"max_price,omitempty" mapstructure:"max_price"`
	MinRating *float64 `json:"min_rating,omitempty" mapstructure:"min_rating"`
	InStock   *bool    `json:"in_stock,omitempty" mapstructure:"in_stock"`
}

// DecodeCriteria builds Criteria from a loose tool-input map, coercing
// JSON numbers where needed.
func DecodeCriteria(input map[string]any) (Criteria, error) {
	var c Criteria
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &c,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Criteria{}, err
	}
	if err := decoder.Decode(input); err != nil {
		return Criteria{}, fmt.Errorf("invalid search criteria: %w", err)
	}
	return c, nil
}

// Filter returns every product satisfying all supplied criteria, in
// catalog order. No criteria means the collection comes back unchanged;
// an empty collection returns an empty slice, never an error.
func Filter(products []domain.Product, c Criteria) []domain.Product {
	results := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if matches(p, c) {
			results = append(results, p)
		}
	}
	return results
}

func matches(p domain.Product, c Criteria) bool {
	if c.Query != "" && !matchesQuery(p, c.Query) {
		return false
	}
	if c.Category != "" && !strings.EqualFold(p.Category, c.Category) {
		return false
	}
	if c.Brand != "" && !strings.EqualFold(p.Brand, c.Brand) {
		return false
	}
	// An absent price is treated as -inf against the lower bound and +inf
	// against the upper bound, so unpriced products fail any price filter.
	if c.MinPrice != nil && (p.Price == nil || *p.Price < *c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && (p.Price == nil || *p.Price > *c.MaxPrice) {
		return false
	}
	if c.MinRating != nil && (p.Rating == nil || *p.Rating < *c.MinRating) {
		return false
	}
	if c.InStock != nil && p.InStock() != *c.InStock {
		return false
	}
	return true
}

func matchesQuery(p domain.Product, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}
