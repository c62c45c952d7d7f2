package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fitcheck/internal/config"
	"fitcheck/internal/logger"
)

// Vector is one embedding with its listing metadata.
type Vector struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Match is one nearest-neighbor result.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Client is a minimal data-plane client for one Pinecone index.
type Client interface {
	Upsert(ctx context.Context, namespace string, vectors []Vector) error
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error)
}

type client struct {
	log        *logger.Logger
	apiKey     string
	indexHost  string
	httpClient *http.Client
}

// NewClient returns nil (no error) when the index is not configured:
// vector similarity is an optional extension, not a pipeline dependency.
func NewClient(log *logger.Logger, cfg config.Pinecone) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.IndexHost) == "" {
		return nil, nil
	}
	host := cfg.IndexHost
	if !strings.HasPrefix(host, "http") {
		host = "https://" + host
	}
	return &client{
		log:        log.With("service", "PineconeClient"),
		apiKey:     cfg.APIKey,
		indexHost:  strings.TrimRight(host, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.indexHost+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("pinecone %s -> %d: %s", path, resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("pinecone decode: %w", err)
		}
	}
	return nil
}

type upsertRequest struct {
	Namespace string   `json:"namespace,omitempty"`
	Vectors   []Vector `json:"vectors"`
}

func (c *client) Upsert(ctx context.Context, namespace string, vectors []Vector) error {
	if len(vectors) == 0 {
		return nil
	}
	return c.do(ctx, "/vectors/upsert", upsertRequest{Namespace: namespace, Vectors: vectors}, nil)
}

type queryRequest struct {
	Namespace       string    `json:"namespace,omitempty"`
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []Match `json:"matches"`
}

func (c *client) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		topK = 10
	}
	var resp queryResponse
	if err := c.do(ctx, "/query", queryRequest{
		Namespace:       namespace,
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}, &resp); err != nil {
		return nil, err
	}
	return resp.Matches, nil
}
