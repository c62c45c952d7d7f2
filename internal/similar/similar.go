package similar

import (
	"context"

	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
	"fitcheck/internal/pinecone"
)

// Finder resolves "products like this one" for the analyze pipeline.
type Finder interface {
	FindSimilarProducts(ctx context.Context, embedding []float32, query string) []listing.Listing
}

// Service answers similarity lookups from the keyword aggregation and,
// when a vector index is configured, keeps that index fed so it can take
// over retrieval once enough listings have accrued. Index traffic is
// best-effort: any vector-store failure is logged and the keyword results
// stand on their own.
type Service struct {
	log       *logger.Logger
	agg       Aggregation
	store     pinecone.Client // nil when no index is configured
	namespace string
	topK      int
}

// Aggregation is the keyword search the service falls back on (and today,
// its only result source).
type Aggregation interface {
	FindProductsByQuery(ctx context.Context, query string) []listing.Listing
}

func New(log *logger.Logger, agg Aggregation, store pinecone.Client, namespace string, topK int) *Service {
	return &Service{
		log:       log.With("service", "Similar"),
		agg:       agg,
		store:     store,
		namespace: namespace,
		topK:      topK,
	}
}

func (s *Service) FindSimilarProducts(ctx context.Context, embedding []float32, query string) []listing.Listing {
	results := s.agg.FindProductsByQuery(ctx, query)
	if s.store == nil || len(embedding) == 0 {
		return results
	}

	matches, err := s.store.Query(ctx, s.namespace, embedding, s.topK)
	if err != nil {
		s.log.Warn("vector query failed", "error", err.Error())
	} else if len(matches) > 0 {
		s.log.Debug("nearest-neighbor candidates", "count", len(matches), "top_id", matches[0].ID)
	}

	s.index(ctx, embedding, results)
	return results
}

// index upserts the request's priced listings under the query embedding so
// the index accrues market data across requests. Unpriced portal links are
// noise for similarity and are skipped.
func (s *Service) index(ctx context.Context, embedding []float32, results []listing.Listing) {
	vectors := make([]pinecone.Vector, 0, len(results))
	for _, l := range results {
		if l.Price == nil {
			continue
		}
		vectors = append(vectors, pinecone.Vector{
			ID:     l.ID,
			Values: embedding,
			Metadata: map[string]any{
				"platform": l.Platform,
				"name":     l.Name,
				"price":    *l.Price,
				"currency": l.Currency,
				"url":      l.URL,
				"source":   l.Source,
			},
		})
	}
	if len(vectors) == 0 {
		return
	}
	if err := s.store.Upsert(ctx, s.namespace, vectors); err != nil {
		s.log.Warn("vector upsert failed", "error", err.Error(), "count", len(vectors))
	}
}
