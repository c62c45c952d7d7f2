package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

type Server struct {
	Port              string `json:"port"`
	Mode              string `json:"mode"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

// Aggregator controls the per-provider call bound inside one aggregation.
// A provider that does not answer within the timeout contributes nothing.
type Aggregator struct {
	ProviderTimeoutSec int `json:"provider_timeout_sec"`
	MaxPerProvider     int `json:"max_per_provider"`
}

type Impact struct {
	AccountSID string `json:"account_sid"`
	AuthToken  string `json:"auth_token"`
	Endpoint   string `json:"endpoint"`
}

type CJ struct {
	DeveloperKey string `json:"developer_key"`
	WebsiteID    string `json:"website_id"`
	Endpoint     string `json:"endpoint"`
}

type Rakuten struct {
	Token    string `json:"token"`
	Endpoint string `json:"endpoint"`
}

type ShareASale struct {
	Token       string `json:"token"`
	Secret      string `json:"secret"`
	AffiliateID string `json:"affiliate_id"`
	Endpoint    string `json:"endpoint"`
}

type Amazon struct {
	AssociateTag string `json:"associate_tag"`
}

type OpenAI struct {
	APIKey     string `json:"api_key"`
	BaseURL    string `json:"base_url"`
	Model      string `json:"model"`
	EmbedModel string `json:"embed_model"`
	TimeoutSec int    `json:"timeout_sec"`
	MaxRetries int    `json:"max_retries"`
}

type Pinecone struct {
	APIKey    string `json:"api_key"`
	IndexHost string `json:"index_host"`
	Namespace string `json:"namespace"`
	TopK      int    `json:"top_k"`
}

type Config struct {
	Server     Server     `json:"server"`
	Aggregator Aggregator `json:"aggregator"`
	Impact     Impact     `json:"impact"`
	CJ         CJ         `json:"cj"`
	Rakuten    Rakuten    `json:"rakuten"`
	ShareASale ShareASale `json:"shareasale"`
	Amazon     Amazon     `json:"amazon"`
	OpenAI     OpenAI     `json:"openai"`
	Pinecone   Pinecone   `json:"pinecone"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", Mode: "dev", RequestTimeoutSec: 60},
		Aggregator: Aggregator{
			ProviderTimeoutSec: 8,
			MaxPerProvider:     5,
		},
		Impact: Impact{
			Endpoint: "https://api.impact.com",
		},
		CJ: CJ{
			Endpoint: "https://ads.api.cj.com/v2/product-search",
		},
		Rakuten: Rakuten{
			Endpoint: "https://api.rakutenmarketing.com/productsearch/1.0",
		},
		ShareASale: ShareASale{
			Endpoint: "https://api.shareasale.com/x.cfm",
		},
		Amazon: Amazon{AssociateTag: "fitcheckai-20"},
		OpenAI: OpenAI{
			BaseURL:    "https://api.openai.com",
			Model:      "gpt-4o",
			EmbedModel: "text-embedding-3-small",
			TimeoutSec: 90,
			MaxRetries: 3,
		},
		Pinecone: Pinecone{Namespace: "listings", TopK: 10},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override credential and
// select runtime fields so secrets stay out of config files.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setStr := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) {
		if v := os.Getenv(key); v != "" {
			var x int
			fmt.Sscanf(v, "%d", &x)
			if x > 0 {
				*dst = x
			}
		}
	}

	setStr("PORT", &cfg.Server.Port)
	setStr("SERVER_MODE", &cfg.Server.Mode)
	setInt("REQUEST_TIMEOUT_SEC", &cfg.Server.RequestTimeoutSec)
	setInt("PROVIDER_TIMEOUT_SEC", &cfg.Aggregator.ProviderTimeoutSec)
	setInt("MAX_PER_PROVIDER", &cfg.Aggregator.MaxPerProvider)

	setStr("IMPACT_SID", &cfg.Impact.AccountSID)
	setStr("IMPACT_TOKEN", &cfg.Impact.AuthToken)
	setStr("IMPACT_ENDPOINT", &cfg.Impact.Endpoint)

	setStr("CJ_TOKEN", &cfg.CJ.DeveloperKey)
	setStr("CJ_ID", &cfg.CJ.WebsiteID)
	setStr("CJ_ENDPOINT", &cfg.CJ.Endpoint)

	setStr("RAKUTEN_TOKEN", &cfg.Rakuten.Token)
	setStr("RAKUTEN_ENDPOINT", &cfg.Rakuten.Endpoint)

	setStr("SHAREASALE_TOKEN", &cfg.ShareASale.Token)
	setStr("SHAREASALE_SECRET", &cfg.ShareASale.Secret)
	setStr("SHAREASALE_USERID", &cfg.ShareASale.AffiliateID)
	setStr("SHAREASALE_ENDPOINT", &cfg.ShareASale.Endpoint)

	setStr("AMAZON_ASSOCIATE_TAG", &cfg.Amazon.AssociateTag)

	setStr("OPENAI_API_KEY", &cfg.OpenAI.APIKey)
	setStr("OPENAI_BASE_URL", &cfg.OpenAI.BaseURL)
	setStr("OPENAI_MODEL", &cfg.OpenAI.Model)
	setStr("OPENAI_EMBED_MODEL", &cfg.OpenAI.EmbedModel)
	setInt("OPENAI_TIMEOUT_SEC", &cfg.OpenAI.TimeoutSec)
	setInt("OPENAI_MAX_RETRIES", &cfg.OpenAI.MaxRetries)

	setStr("PINECONE_API_KEY", &cfg.Pinecone.APIKey)
	setStr("PINECONE_INDEX_HOST", &cfg.Pinecone.IndexHost)
	setStr("PINECONE_NAMESPACE", &cfg.Pinecone.Namespace)
	setInt("PINECONE_TOP_K", &cfg.Pinecone.TopK)
}
