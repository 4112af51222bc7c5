package domain

// Product is a single marketplace catalog entry. Catalog data is owned by
// an external collaborator (see ports.CatalogSource); the engines treat it
// as immutable reference data whose ordering is semantically significant:
// matching tie-breaks and filter output both follow catalog order.
type Product struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Category    string   `json:"category,omitempty" yaml:"category,omitempty"`
	Brand       string   `json:"brand,omitempty" yaml:"brand,omitempty"`
	Price       *float64 `json:"price,omitempty" yaml:"price,omitempty"`
	Currency    string   `json:"currency,omitempty" yaml:"currency,omitempty"`
	Stock       int      `json:"stock" yaml:"stock"`
	Rating      *float64 `json:"rating,omitempty" yaml:"rating,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// InStock reports whether the product has units available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

// Float returns a pointer to v. Convenience for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
