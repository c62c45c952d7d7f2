package amazon

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"fitcheck/internal/listing"
)

// Logo shown on the search-portal card. No per-item image exists.
const logoURL = "https://upload.wikimedia.org/wikipedia/commons/a/a9/Amazon_logo.svg"

// Config controls the Amazon search-link provider.
type Config struct {
	Name         string
	AssociateTag string // appended as the "tag" param; empty means a plain link
}

// Provider builds an Amazon search deep link. The PA API needs a sales
// quota before it grants catalog access, so this stays a deterministic
// search-results link with the associate tag attached.
type Provider struct {
	cfg Config
}

func New(cfg Config) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Amazon"
	}
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	u := "https://www.amazon.com/s?k=" + url.QueryEscape(query)
	if p.cfg.AssociateTag != "" {
		u += "&tag=" + url.QueryEscape(p.cfg.AssociateTag)
	}
	return []listing.Listing{{
		ID:          "amazon-search-" + uuid.NewString(),
		Platform:    "Amazon",
		Name:        fmt.Sprintf("Shop %q on Amazon", query),
		Price:       nil,
		Currency:    "USD",
		ImageURL:    logoURL,
		URL:         u,
		IsAffiliate: p.cfg.AssociateTag != "",
		Source:      p.cfg.Name,
	}}, nil
}
