package cjaffiliate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"fitcheck/internal/httpx"
	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
)

// Config controls the CJ Affiliate product-search provider.
type Config struct {
	Name         string
	DeveloperKey string
	WebsiteID    string
	Endpoint     string // default https://ads.api.cj.com/v2/product-search
	Limit        int
}

// Provider searches the CJ Affiliate product catalog with a developer key
// sent as a bearer token. Without a key, Search is a silent no-op.
type Provider struct {
	cfg    Config
	log    *logger.Logger
	client *httpx.Client
}

func New(cfg Config, log *logger.Logger, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "CJ"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://ads.api.cj.com/v2/product-search"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	return &Provider{cfg: cfg, log: log.With("provider", cfg.Name), client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	if p.cfg.DeveloperKey == "" {
		p.log.Debug("credentials missing, skipping")
		return nil, nil
	}

	q := url.Values{}
	q.Set("website-id", p.cfg.WebsiteID)
	q.Set("advertiser-ids", "joined")
	q.Set("keywords", query)
	q.Set("records-per-page", strconv.Itoa(p.cfg.Limit))
	u := p.cfg.Endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.DeveloperKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cj: %s -> %d", p.cfg.Endpoint, resp.StatusCode)
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("cj: decode: %w", err)
	}

	out := make([]listing.Listing, 0, len(api.Products))
	for _, prod := range api.Products {
		if strings.TrimSpace(prod.ClickURL) == "" {
			continue
		}
		id := strings.TrimSpace(prod.AdID)
		if id == "" {
			id = uuid.NewString()
		}
		platform := prod.AdvertiserName
		if platform == "" {
			platform = "CJ Merchant"
		}
		currency := prod.Currency
		if currency == "" {
			currency = "USD"
		}
		out = append(out, listing.Listing{
			ID:          "cj-" + id,
			Platform:    platform,
			Name:        prod.Name,
			Price:       parsePrice(prod.Price),
			Currency:    currency,
			ImageURL:    prod.ImageURL,
			URL:         prod.ClickURL,
			IsAffiliate: true,
			Source:      p.cfg.Name,
			Brand:       prod.AdvertiserName,
		})
	}
	return out, nil
}

type product struct {
	AdID           string          `json:"adId"`
	AdvertiserName string          `json:"advertiserName"`
	Name           string          `json:"name"`
	Price          json.RawMessage `json:"price"`
	Currency       string          `json:"currency"`
	ImageURL       string          `json:"imageUrl"`
	ClickURL       string          `json:"clickUrl"`
}

type apiResponse struct {
	Products []product `json:"products"`
}

// parsePrice tolerates the looseness of affiliate feeds: the price may
// arrive as a JSON number, a numeric string, empty, null or text. Anything
// that does not parse to a positive amount is an absent price; the listing
// itself survives.
func parsePrice(raw json.RawMessage) *float64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}
