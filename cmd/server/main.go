package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"fitcheck/internal/aggregate"
	"fitcheck/internal/analyze"
	"fitcheck/internal/config"
	"fitcheck/internal/httpx"
	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
	"fitcheck/internal/openai"
	"fitcheck/internal/pinecone"
	"fitcheck/internal/provider/amazon"
	"fitcheck/internal/provider/cjaffiliate"
	"fitcheck/internal/provider/deeplink"
	"fitcheck/internal/provider/impact"
	"fitcheck/internal/provider/rakuten"
	"fitcheck/internal/provider/shareasale"
	"fitcheck/internal/provider/stockx"
	"fitcheck/internal/similar"
	"fitcheck/internal/vision"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Server.Mode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Impact.AccountSID == "" || cfg.Impact.AuthToken == "" {
		log.Warn("Impact credentials not set; provider will contribute nothing")
	}
	if cfg.CJ.DeveloperKey == "" {
		log.Warn("CJ credentials not set; provider will contribute nothing")
	}
	if cfg.Rakuten.Token == "" {
		log.Warn("Rakuten credentials not set; provider will contribute nothing")
	}
	if cfg.ShareASale.Token == "" || cfg.ShareASale.Secret == "" || cfg.ShareASale.AffiliateID == "" {
		log.Warn("ShareASale credentials not set; provider will contribute nothing")
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

	reg := buildRegistry(cfg, log, httpClient)
	agg := aggregate.New(log, reg, time.Duration(cfg.Aggregator.ProviderTimeoutSec)*time.Second)

	oai, err := openai.NewClient(log, cfg.OpenAI)
	if err != nil {
		log.Fatal("openai client", "error", err.Error())
	}
	describer, err := vision.NewDescriber(log, oai)
	if err != nil {
		log.Fatal("vision service", "error", err.Error())
	}

	store, err := pinecone.NewClient(log, cfg.Pinecone)
	if err != nil {
		log.Fatal("pinecone client", "error", err.Error())
	}
	if store == nil {
		log.Info("vector index not configured; similarity runs on keyword search only")
	}
	sim := similar.New(log, agg, store, cfg.Pinecone.Namespace, cfg.Pinecone.TopK)

	svc := analyze.New(log, describer, oai, sim, agg)

	if cfg.Server.Mode == "prod" || cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	h := newAnalyzeHandler(log, svc)
	router.POST("/api/analyze", h.Analyze)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.RequestTimeoutSec+10) * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server", "error", err.Error())
		}
	}()

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

// buildRegistry wires the two ordered provider groups from config.
// Group order is display order: affiliates first, fallbacks second.
func buildRegistry(cfg config.Config, log *logger.Logger, hc *httpx.Client) listing.Registry {
	limit := cfg.Aggregator.MaxPerProvider
	return listing.Registry{
		Affiliate: []listing.Provider{
			impact.New(impact.Config{
				AccountSID: cfg.Impact.AccountSID,
				AuthToken:  cfg.Impact.AuthToken,
				Endpoint:   cfg.Impact.Endpoint,
				Limit:      limit,
			}, log, hc),
			cjaffiliate.New(cjaffiliate.Config{
				DeveloperKey: cfg.CJ.DeveloperKey,
				WebsiteID:    cfg.CJ.WebsiteID,
				Endpoint:     cfg.CJ.Endpoint,
				Limit:        limit,
			}, log, hc),
			rakuten.New(rakuten.Config{
				Token:    cfg.Rakuten.Token,
				Endpoint: cfg.Rakuten.Endpoint,
				Limit:    limit,
			}, log, hc),
			shareasale.New(shareasale.Config{
				Token:       cfg.ShareASale.Token,
				Secret:      cfg.ShareASale.Secret,
				AffiliateID: cfg.ShareASale.AffiliateID,
				Endpoint:    cfg.ShareASale.Endpoint,
				Limit:       limit,
			}, log, hc.HTTP),
		},
		Fallback: []listing.Provider{
			amazon.New(amazon.Config{AssociateTag: cfg.Amazon.AssociateTag}),
			stockx.New(),
			deeplink.New(),
		},
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
