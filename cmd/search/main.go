package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"fitcheck/internal/aggregate"
	"fitcheck/internal/config"
	"fitcheck/internal/httpx"
	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
	"fitcheck/internal/pricing"
	"fitcheck/internal/provider/amazon"
	"fitcheck/internal/provider/cjaffiliate"
	"fitcheck/internal/provider/deeplink"
	"fitcheck/internal/provider/impact"
	"fitcheck/internal/provider/rakuten"
	"fitcheck/internal/provider/shareasale"
	"fitcheck/internal/provider/stockx"
)

// Probe one query through the full provider registry and print the merged
// listings as JSON. With -price, also print the verdict.
func main() {
	var query string
	var userPrice float64
	var timeout int
	var configPath string

	flag.StringVar(&query, "query", "vintage denim jacket", "product search term")
	flag.Float64Var(&userPrice, "price", 0, "declared price for a verdict (0 = none)")
	flag.IntVar(&timeout, "timeout", 15, "request timeout seconds")
	flag.StringVar(&configPath, "config", os.Getenv("CONFIG_FILE"), "path to config.json (optional)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if timeout > 0 {
		cfg.Server.RequestTimeoutSec = timeout
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	limit := cfg.Aggregator.MaxPerProvider

	reg := listing.Registry{
		Affiliate: []listing.Provider{
			impact.New(impact.Config{
				AccountSID: cfg.Impact.AccountSID,
				AuthToken:  cfg.Impact.AuthToken,
				Endpoint:   cfg.Impact.Endpoint,
				Limit:      limit,
			}, log, httpClient),
			cjaffiliate.New(cjaffiliate.Config{
				DeveloperKey: cfg.CJ.DeveloperKey,
				WebsiteID:    cfg.CJ.WebsiteID,
				Endpoint:     cfg.CJ.Endpoint,
				Limit:        limit,
			}, log, httpClient),
			rakuten.New(rakuten.Config{
				Token:    cfg.Rakuten.Token,
				Endpoint: cfg.Rakuten.Endpoint,
				Limit:    limit,
			}, log, httpClient),
			shareasale.New(shareasale.Config{
				Token:       cfg.ShareASale.Token,
				Secret:      cfg.ShareASale.Secret,
				AffiliateID: cfg.ShareASale.AffiliateID,
				Endpoint:    cfg.ShareASale.Endpoint,
				Limit:       limit,
			}, log, httpClient.HTTP),
		},
		Fallback: []listing.Provider{
			amazon.New(amazon.Config{AssociateTag: cfg.Amazon.AssociateTag}),
			stockx.New(),
			deeplink.New(),
		},
	}

	agg := aggregate.New(log, reg, time.Duration(cfg.Aggregator.ProviderTimeoutSec)*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
	defer cancel()

	results := agg.FindProductsByQuery(ctx, query)

	out := struct {
		Query    string                `json:"query"`
		Listings []listing.Listing     `json:"listings"`
		Pricing  *pricing.PriceVerdict `json:"pricing,omitempty"`
	}{Query: query, Listings: results}
	if userPrice > 0 {
		out.Pricing = pricing.CalculateVerdict(userPrice, results)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	_ = enc.Encode(out)
}
