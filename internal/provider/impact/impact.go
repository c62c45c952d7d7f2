package impact

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

// Config controls the Impact.com catalog provider.
type Config struct {
	Name       string
	AccountSID string
	AuthToken  string
	Endpoint   string // base URL, default https://api.impact.com
	Limit      int    // records per search, default 5
}

// Provider searches the Impact.com Mediapartners catalog.
// Credentials are a long-lived account SID + auth token pair sent as
// HTTP basic auth. Without both, Search is a silent no-op.
type Provider struct {
	cfg    Config
	log    *logger.Logger
	client *httpx.Client
}

func New(cfg Config, log *logger.Logger, hc *httpx.Client) *Provider {
	if cfg.Name == "" {
		cfg.Name = "Impact"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.impact.com"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	return &Provider{cfg: cfg, log: log.With("provider", cfg.Name), client: hc}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	if p.cfg.AccountSID == "" || p.cfg.AuthToken == "" {
		p.log.Debug("credentials missing, skipping")
		return nil, nil
	}

	u := fmt.Sprintf("%s/Mediapartners/%s/Catalogs/ItemSearch?Query=%s&Limit=%d",
		strings.TrimRight(p.cfg.Endpoint, "/"),
		url.PathEscape(p.cfg.AccountSID),
		url.QueryEscape(query),
		p.cfg.Limit,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(p.cfg.AccountSID, p.cfg.AuthToken)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("impact: %s -> %d", u, resp.StatusCode)
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("impact: decode: %w", err)
	}

	out := make([]listing.Listing, 0, len(api.Items))
	for _, it := range api.Items {
		if strings.TrimSpace(it.URL) == "" {
			continue
		}
		id := strings.TrimSpace(it.ID)
		if id == "" {
			id = uuid.NewString()
		}
		platform := it.Manufacturer
		if platform == "" {
			platform = "Impact Retailer"
		}
		currency := it.Currency
		if currency == "" {
			currency = "USD"
		}
		out = append(out, listing.Listing{
			ID:          "impact-" + id,
			Platform:    platform,
			Name:        it.Name,
			Price:       parsePrice(it.CurrentPrice, it.Price),
			Currency:    currency,
			ImageURL:    it.ImageURL,
			URL:         it.URL,
			IsAffiliate: true,
			Source:      p.cfg.Name,
			Brand:       it.Manufacturer,
		})
	}
	return out, nil
}

// Impact item fields per the Catalogs/ItemSearch response.
type item struct {
	ID           string          `json:"Id"`
	Name         string          `json:"Name"`
	CurrentPrice json.RawMessage `json:"CurrentPrice"`
	Price        json.RawMessage `json:"Price"`
	Currency     string          `json:"Currency"`
	ImageURL     string          `json:"ImageUrl"`
	URL          string          `json:"Url"`
	Manufacturer string          `json:"Manufacturer"`
}

type apiResponse struct {
	Items []item `json:"Items"`
}

// parsePrice returns the first parsable positive value, or nil when the
// feed has no usable price. The feed may carry prices as JSON numbers,
// numeric strings, empty strings, null or text; none of those abort the
// listing.
func parsePrice(candidates ...json.RawMessage) *float64 {
	for _, c := range candidates {
		s := strings.Trim(strings.TrimSpace(string(c)), `"`)
		if s == "" || s == "null" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			continue
		}
		return &v
	}
	return nil
}
