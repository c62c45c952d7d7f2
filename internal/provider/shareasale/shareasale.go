package shareasale

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=shareasale -destination=mock_http_client_test.go -source=shareasale.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const actionProductSearch = "productSearch"

// Config controls the ShareASale provider.
type Config struct {
	Name        string
	Token       string
	Secret      string
	AffiliateID string
	Endpoint    string // default https://api.shareasale.com/x.cfm
	Limit       int
}

// Provider searches ShareASale's merchant datafeed. Every call is signed
// with a keyed digest over the API token, a UTC timestamp, the action verb
// and the API secret (see Sign). All three credentials must be present or
// Search is a silent no-op.
type Provider struct {
	cfg    Config
	log    *logger.Logger
	client HTTPClient

	// now is swappable so tests can pin the signature timestamp.
	now func() time.Time
}

func New(cfg Config, log *logger.Logger, hc HTTPClient) *Provider {
	if cfg.Name == "" {
		cfg.Name = "ShareASale"
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = "https://api.shareasale.com/x.cfm"
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 5
	}
	return &Provider{cfg: cfg, log: log.With("provider", cfg.Name), client: hc, now: time.Now}
}

func (p *Provider) Name() string { return p.cfg.Name }

func (p *Provider) Search(ctx context.Context, query string) ([]listing.Listing, error) {
	if p.cfg.Token == "" || p.cfg.Secret == "" || p.cfg.AffiliateID == "" {
		p.log.Debug("credentials missing, skipping")
		return nil, nil
	}

	timestamp := p.now().UTC().Format(http.TimeFormat)
	sig := Sign(p.cfg.Token, timestamp, actionProductSearch, p.cfg.Secret)

	q := url.Values{}
	q.Set("action", actionProductSearch)
	q.Set("affiliateId", p.cfg.AffiliateID)
	q.Set("keyword", query)
	q.Set("format", "json")
	u := p.cfg.Endpoint + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("x-ShareASale-Date", timestamp)
	req.Header.Set("x-ShareASale-Authentication", sig)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("shareasale: %s -> %d", p.cfg.Endpoint, resp.StatusCode)
	}

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return nil, fmt.Errorf("shareasale: decode: %w", err)
	}

	out := make([]listing.Listing, 0, len(api.Products))
	for i, prod := range api.Products {
		if p.cfg.Limit > 0 && i >= p.cfg.Limit {
			break
		}
		if strings.TrimSpace(prod.Link) == "" {
			continue
		}
		id := strings.TrimSpace(prod.ProductID.String())
		if id == "" {
			id = uuid.NewString()
		}
		platform := prod.Merchant
		if platform == "" {
			platform = "ShareASale Merchant"
		}
		imageURL := prod.Image
		if imageURL == "" {
			imageURL = prod.Thumbnail
		}
		out = append(out, listing.Listing{
			ID:          "sas-" + id,
			Platform:    platform,
			Name:        prod.ProductName,
			Price:       parsePrice(prod.Price),
			Currency:    "USD",
			ImageURL:    imageURL,
			URL:         prod.Link,
			IsAffiliate: true,
			Source:      p.cfg.Name,
			Brand:       prod.Merchant,
		})
	}
	return out, nil
}

type product struct {
	ProductID   json.Number     `json:"productId"`
	Merchant    string          `json:"merchant"`
	ProductName string          `json:"name"`
	Price       json.RawMessage `json:"price"`
	Image       string          `json:"image"`
	Thumbnail   string          `json:"thumbnail"`
	Link        string          `json:"link"`
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
