// Package matching binds interest items to catalog products.
//
// The algorithm is deterministic and catalog-order dependent on purpose:
// identical inputs always yield identical matches, and ties are broken by
// whichever candidate appears first in the catalog.
package matching

import (
	"log/slog"
	"strings"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
)

// Matcher enriches interest items against a product catalog.
type Matcher struct {
	logger *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) {
		m.logger = logger
	}
}

// New creates a Matcher.
func New(opts ...Option) *Matcher {
	m := &Matcher{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Enrich matches every item against the catalog, in item order. An empty
// catalog is a degraded condition, not an error: every item passes
// through unmatched.
func (m *Matcher) Enrich(catalog []domain.Product, items []domain.InterestItem) []domain.EnrichedItem {
	enriched := make([]domain.EnrichedItem, 0, len(items))
	for _, item := range items {
		enriched = append(enriched, m.enrichOne(catalog, item))
	}
	return enriched
}

func (m *Matcher) enrichOne(catalog []domain.Product, item domain.InterestItem) domain.EnrichedItem {
	out := domain.EnrichedItem{InterestItem: item}

	matched := m.match(catalog, item)
	if matched == nil {
		out.MarketplaceDetails = nil
		out.Price = nil
		out.InStock = false
		m.logger.Debug("no catalog match", "item", item.DisplayName())
		return out
	}

	out.MarketplaceDetails = matched
	out.Price = matched.Price
	out.Currency = matched.Currency
	out.InStock = matched.InStock()
	m.logger.Debug("matched", "item", item.DisplayName(), "product", matched.Name)
	return out
}

// match finds the best catalog candidate for one item, or nil.
//
// Exact IDs (cart items) win outright: the first product with that ID is
// returned no matter how another product's name reads. Name matching
// distinguishes a strong match (name and category agree; scanning stops
// immediately) from a weak match (name only; scanning continues because a
// later strong match still overrides it).
func (m *Matcher) match(catalog []domain.Product, item domain.InterestItem) *domain.Product {
	if item.ProductID != "" {
		for i := range catalog {
			if catalog[i].ID == item.ProductID {
				return &catalog[i]
			}
		}
		return nil
	}

	if item.IdentifiedName == "" {
		return nil
	}

	wanted := strings.ToLower(item.IdentifiedName)
	wantedCategory := strings.ToLower(item.Category)

	var weak *domain.Product
	for i := range catalog {
		candidate := strings.ToLower(catalog[i].Name)
		nameMatch := strings.Contains(candidate, wanted) || strings.Contains(wanted, candidate)
		if !nameMatch {
			continue
		}
		if wantedCategory != "" && wantedCategory == strings.ToLower(catalog[i].Category) {
			// Strong match: first one wins, stop scanning.
			return &catalog[i]
		}
		if weak == nil {
			// Weak match: remember it, but keep scanning. A known quirk of
			// this heuristic is that a name-substring overlap can bind an
			// item to an unrelated product; see the regression test before
			// changing this.
			weak = &catalog[i]
		}
	}
	return weak
}
