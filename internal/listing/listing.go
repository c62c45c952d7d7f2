package listing

import (
	"context"
)

// Listing is the normalized shape returned by all providers.
// Price is a pointer because deep-link providers cannot know a price
// until the user clicks through.
type Listing struct {
	ID          string   `json:"id"`
	Platform    string   `json:"platform"`
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	URL         string   `json:"url"`
	IsAffiliate bool     `json:"isAffiliate"`
	Source      string   `json:"source"`
	Brand       string   `json:"brand,omitempty"`
}

// Provider searches one external catalog or marketplace surface.
//
// Concrete providers must treat missing credentials, non-2xx statuses and
// malformed bodies as "no results": they return an empty slice and reserve
// the error return for diagnostics only. The aggregator logs a returned
// error and carries on; it never propagates one.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Listing, error)
}

// PriceOf is a convenience for building optional prices in providers and tests.
func PriceOf(v float64) *float64 { return &v }
