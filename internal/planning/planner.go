// Package planning turns an enriched wishlist and an optional budget into
// a shopping plan: what to buy now, and what to shelve with a reason.
package planning

import (
	"context"
	"log/slog"
	"math"
	"sort"

	"github.com/ncardoz/cesta/internal/logging"
	"github.com/ncardoz/cesta/pkg/domain"
	"github.com/ncardoz/cesta/pkg/ports"
)

// adviceLimit caps how many buy items receive a generated advisory.
const adviceLimit = 2

// Planner builds budget-constrained shopping plans.
type Planner struct {
	advisor ports.Advisor
	logger  *slog.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithAdvisor wires the optional text-generation capability used to
// annotate the first plan entries with a short purchase advisory.
func WithAdvisor(advisor ports.Advisor) Option {
	return func(p *Planner) {
		p.advisor = advisor
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// New creates a Planner.
func New(opts ...Option) *Planner {
	p := &Planner{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BuildPlan runs the greedy allocation over the enriched wishlist.
//
// Items are visited in priority order: abandoned-cart items first, then
// items with a known price, then ascending price; the sort is stable so
// equal-priority items keep their input order. A single pass accumulates
// purchases while the running total stays within budget; everything else
// lands in recommendations with an explicit reason.
func (p *Planner) BuildPlan(ctx context.Context, items []domain.EnrichedItem, budget *float64) domain.ShoppingPlan {
	sorted := make([]domain.EnrichedItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityLess(sorted[i], sorted[j])
	})

	plan := domain.ShoppingPlan{
		Budget:                  budget,
		ItemsToBuy:              []domain.EnrichedItem{},
		RecommendationsForLater: []domain.Recommendation{},
	}

	runningTotal := 0.0
	for _, item := range sorted {
		switch {
		case item.MarketplaceDetails != nil && item.InStock && item.Price != nil:
			price := *item.Price
			if budget == nil || runningTotal+price <= *budget {
				plan.ItemsToBuy = append(plan.ItemsToBuy, item)
				runningTotal += price
			} else {
				plan.RecommendationsForLater = append(plan.RecommendationsForLater, domain.Recommendation{
					Name:   item.Name(),
					Price:  item.Price,
					Reason: domain.ReasonExceedsBudget,
				})
			}
		case item.MarketplaceDetails != nil && item.InStock:
			plan.RecommendationsForLater = append(plan.RecommendationsForLater, domain.Recommendation{
				Name:   item.Name(),
				Reason: domain.ReasonPriceUnavailable,
			})
		case item.MarketplaceDetails != nil:
			plan.RecommendationsForLater = append(plan.RecommendationsForLater, domain.Recommendation{
				Name:   item.Name(),
				Reason: domain.ReasonOutOfStock,
			})
		// An unmatched item without an identified name (a cart line whose
		// product vanished from the catalog) is dropped: there is nothing
		// actionable to tell the user to search for.
		case item.IdentifiedName != "":
			plan.RecommendationsForLater = append(plan.RecommendationsForLater, domain.Recommendation{
				Name:   item.IdentifiedName,
				Reason: domain.ReasonNotFound,
			})
		}
	}

	plan.EstimatedTotalCost = runningTotal
	if len(plan.ItemsToBuy) > 0 {
		plan.Currency = plan.ItemsToBuy[0].Currency
	}

	p.annotate(ctx, &plan)
	return plan
}

// priorityLess orders by (not abandoned cart, price unknown, price).
func priorityLess(a, b domain.EnrichedItem) bool {
	ak, bk := priorityKey(a), priorityKey(b)
	if ak.cart != bk.cart {
		return ak.cart // cart items first
	}
	if ak.noPrice != bk.noPrice {
		return !ak.noPrice
	}
	return ak.price < bk.price
}

type key struct {
	cart    bool
	noPrice bool
	price   float64
}

func priorityKey(item domain.EnrichedItem) key {
	k := key{
		cart:    item.Source == domain.SourceAbandonedCart,
		noPrice: item.Price == nil,
		price:   math.Inf(1),
	}
	if item.Price != nil {
		k.price = *item.Price
	}
	return k
}

// annotate asks the advisor for a short justification on the first buy
// items. Any failure leaves the item without advice; plan construction
// never aborts here.
func (p *Planner) annotate(ctx context.Context, plan *domain.ShoppingPlan) {
	if p.advisor == nil {
		return
	}
	for i := range plan.ItemsToBuy {
		if i >= adviceLimit {
			break
		}
		item := &plan.ItemsToBuy[i]
		advice, err := p.advisor.Advise(ctx, domain.AdviceRequest{
			ProductName: item.Name(),
			Category:    item.Category,
			Price:       item.Price,
			Currency:    item.Currency,
			KeyFeatures: item.KeyFeatures,
			Source:      item.Source,
			Sentiment:   item.Sentiment,
		})
		if err != nil {
			p.logger.Warn("advisory generation failed, continuing without advice",
				"item", item.Name(), "err", err)
			continue
		}
		item.AdvisoryText = advice.Advice
	}
}
