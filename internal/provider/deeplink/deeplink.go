package deeplink

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"fitcheck/internal/listing"
)

// platform describes one resale marketplace reachable only through a
// query-encoded search URL.
type platform struct {
	name     string
	label    string
	buildURL func(query string) string
}

var defaultPlatforms = []platform{
	{
		name:  "Depop",
		label: "Search on Depop",
		buildURL: func(q string) string {
			return "https://www.depop.com/search/?q=" + url.QueryEscape(q)
		},
	},
	{
		name:  "Vinted",
		label: "Search on Vinted",
		buildURL: func(q string) string {
			return "https://www.vinted.com/catalog?search_text=" + url.QueryEscape(q)
		},
	},
	{
		name:  "eBay",
		label: "Search on eBay",
		buildURL: func(q string) string {
			return "https://www.ebay.com/sch/i.html?_nkw=" + url.QueryEscape(q)
		},
	},
}

// Provider emits one portal listing per configured resale platform.
// These carry no price and no commission; they exist so the response
// always has somewhere to send the user even when every credentialed
// provider is down or unconfigured.
type Provider struct {
	name      string
	platforms []platform
}

func New() *Provider {
	return &Provider{name: "DeepLink", platforms: defaultPlatforms}
}

func (p *Provider) Name() string { return p.name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	out := make([]listing.Listing, 0, len(p.platforms))
	for _, pl := range p.platforms {
		out = append(out, listing.Listing{
			ID:          fmt.Sprintf("deeplink-%s-%s", strings.ToLower(pl.name), uuid.NewString()),
			Platform:    pl.name,
			Name:        fmt.Sprintf("%s: %q", pl.label, query),
			Price:       nil,
			Currency:    "USD",
			URL:         pl.buildURL(query),
			IsAffiliate: false,
			Source:      p.name,
		})
	}
	return out, nil
}
