package stockx

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"fitcheck/internal/listing"
)

const logoURL = "https://stockx-assets.imgix.net/logo/stockx_homepage.png?auto=compress,format&w=200&h=200&fit=clip"

// Provider builds a StockX search deep link. StockX resale prices are a
// useful market reference even without API access, so the portal link is
// always returned. No commission applies.
type Provider struct {
	name string
}

func New() *Provider {
	return &Provider{name: "StockX"}
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	return []listing.Listing{{
		ID:          "stockx-search-" + uuid.NewString(),
		Platform:    "StockX",
		Name:        fmt.Sprintf("Find %q on StockX", query),
		Price:       nil,
		Currency:    "USD",
		ImageURL:    logoURL,
		URL:         "https://stockx.com/search?s=" + url.QueryEscape(query),
		IsAffiliate: false,
		Source:      p.name,
	}}, nil
}
