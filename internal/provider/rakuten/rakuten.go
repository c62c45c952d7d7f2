package rakuten

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

// Config controls the Rakuten Advertising product-search provider.
type Config struct {
	Name     string
	Token    string
	Endpoint string // default https://api.rakutenmarketing.com/productsearch/1.0
	Limit    int
}

// Provider searches the Rakuten Advertising product feed with a bearer
// token. Without a token, Search is a silent no-op.
type Provider struct {
	cfg    Config
	log    *logger.Logger
	client *httpx.Client
}

func New(cfg Config, log *logger.Logger, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Rakuten"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.rakutenmarketing.com/productsearch/1.0"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	return &Provider{cfg: cfg, log: log.With("provider", cfg.Name), client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	if p.cfg.Token == "" {
		p.log.Debug("credentials missing, skipping")
		return nil, nil
	}

	u := fmt.Sprintf("%s?keyword=%s&max=%d", p.cfg.Endpoint, url.QueryEscape(query), p.cfg.Limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.Token)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rakuten: %s -> %d", p.cfg.Endpoint, resp.StatusCode)
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("rakuten: decode: %w", err)
	}

	out := make([]listing.Listing, 0, len(api.Result))
	for _, it := range api.Result {
		if strings.TrimSpace(it.LinkURL) == "" {
			continue
		}
		sku := strings.TrimSpace(it.SKU)
		if sku == "" {
			sku = uuid.NewString()
		}
		platform := it.MerchantName
		if platform == "" {
			platform = "Rakuten Merchant"
		}
		currency := it.Price.Currency
		if currency == "" {
			currency = "USD"
		}
		out = append(out, listing.Listing{
			ID:          fmt.Sprintf("rakuten-%s-%s", it.MID, sku),
			Platform:    platform,
			Name:        it.ProductName,
			Price:       parsePrice(it.Price.Amount),
			Currency:    currency,
			ImageURL:    it.ImageURL,
			URL:         it.LinkURL,
			IsAffiliate: true,
			Source:      p.cfg.Name,
			Brand:       it.MerchantName,
		})
	}
	return out, nil
}

type price struct {
	Amount   json.RawMessage `json:"amount"`
	Currency string          `json:"currency"`
}

type item struct {
	MID          json.Number `json:"mid"`
	SKU          string      `json:"sku"`
	MerchantName string      `json:"merchantname"`
	ProductName  string      `json:"productname"`
	Price        price       `json:"price"`
	ImageURL     string      `json:"imageurl"`
	LinkURL      string      `json:"linkurl"`
}

type apiResponse struct {
	Result []item `json:"result"`
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
