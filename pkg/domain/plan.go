package domain

// Recommendation reasons emitted by the planning engine.
const (
	ReasonExceedsBudget    = "exceeds budget"
	ReasonPriceUnavailable = "price unavailable"
	ReasonOutOfStock       = "out of stock"
	ReasonNotFound         = "not found automatically, search manually"
)

// Recommendation is an item the plan could not include, with the reason.
type Recommendation struct {
	Name   string   `json:"name"`
	Reason string   `json:"reason"`
	Price  *float64 `json:"price,omitempty"`
}

// ShoppingPlan is the output of the planning engine.
//
// Invariant: when Budget is set, the sum of ItemsToBuy prices never
// exceeds it. Currency is the currency of the first buy item, or empty.
type ShoppingPlan struct {
	Budget                  *float64         `json:"budget"`
	EstimatedTotalCost      float64          `json:"estimated_total_cost"`
	ItemsToBuy              []EnrichedItem   `json:"items_to_buy"`
	RecommendationsForLater []Recommendation `json:"recommendations_for_later"`
	Currency                string           `json:"currency,omitempty"`
}
