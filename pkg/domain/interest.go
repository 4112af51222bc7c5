package domain

// Interest signal origins. Social items carry a fuzzily identified name;
// abandoned-cart items carry an exact product ID.
const (
	SourceSocial        = "social"
	SourceAbandonedCart = "abandoned_cart"
)

// InterestItem is one wish captured from an external signal source before
// any catalog matching has happened.
type InterestItem struct {
	Source         string         `json:"source"`
	IdentifiedName string         `json:"identified_name,omitempty"`
	Category       string         `json:"category,omitempty"`
	KeyFeatures    []string       `json:"key_features,omitempty"`
	Sentiment      string         `json:"sentiment,omitempty"`
	ProductID      string         `json:"product_id,omitempty"`
	Details        map[string]any `json:"details,omitempty"`
}

// DisplayName returns the best human-readable label for the item.
func (i InterestItem) DisplayName() string {
	if i.IdentifiedName != "" {
		return i.IdentifiedName
	}
	return i.ProductID
}

// EnrichedItem is an InterestItem after catalog matching. Created once by
// the matching engine and immutable afterwards, except for AdvisoryText
// which the planning engine may fill in later.
type EnrichedItem struct {
	InterestItem

	// MarketplaceDetails is nil when no catalog product matched.
	MarketplaceDetails *Product `json:"marketplace_details"`
	Price              *float64 `json:"price"`
	Currency           string   `json:"currency,omitempty"`
	InStock            bool     `json:"in_stock"`

	AdvisoryText string `json:"advisory_text,omitempty"`
}

// Name returns the item's name, falling back to the matched product's name
// when the signal carried no identified name (e.g. cart items).
func (e EnrichedItem) Name() string {
	if e.IdentifiedName != "" {
		return e.IdentifiedName
	}
	if e.MarketplaceDetails != nil {
		return e.MarketplaceDetails.Name
	}
	return e.ProductID
}
