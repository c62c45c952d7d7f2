package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
	"fitcheck/internal/pricing"
	"fitcheck/internal/vision"
)

// Embedder is the text-embedding collaborator.
type Embedder interface {
	Embed(ctx context.Context, inputs []string) ([][]float32, error)
}

// SimilarFinder resolves the "similar listings" section.
type SimilarFinder interface {
	FindSimilarProducts(ctx context.Context, embedding []float32, query string) []listing.Listing
}

// Aggregation backs the per-outfit-idea product suggestions.
type Aggregation interface {
	FindProductsByQuery(ctx context.Context, query string) []listing.Listing
}

// Request is one inbound analysis: an image (data URI or URL) and the
// price the user paid or is about to pay. UserPrice <= 0 means undeclared.
type Request struct {
	Image     string  `json:"image"`
	UserPrice float64 `json:"userPrice"`
}

// EnrichedIdea is an outfit idea with its product suggestions attached.
type EnrichedIdea struct {
	Description string            `json:"description"`
	SearchQuery string            `json:"searchQuery"`
	Products    []listing.Listing `json:"products"`
}

// EnrichedAnalysis mirrors the vision analysis with enriched ideas.
type EnrichedAnalysis struct {
	Category    string         `json:"category"`
	Color       string         `json:"color"`
	StyleTags   []string       `json:"styleTags"`
	Brand       string         `json:"brand,omitempty"`
	OutfitIdeas []EnrichedIdea `json:"outfitIdeas"`
}

// Response is the full analyze payload.
type Response struct {
	Analysis        EnrichedAnalysis      `json:"analysis"`
	SimilarProducts []listing.Listing     `json:"similarProducts"`
	Pricing         *pricing.PriceVerdict `json:"pricing"`
}

// ErrImageRequired rejects requests before any upstream call is made.
var ErrImageRequired = errors.New("image is required")

// Service sequences the pipeline for one request: describe the photo,
// embed the description, fan out the product searches, compute the
// verdict. Vision and embedding failures fail the whole request; provider
// failures never do (aggregator fails closed).
type Service struct {
	log     *logger.Logger
	vision  vision.Describer
	embed   Embedder
	similar SimilarFinder
	agg     Aggregation
}

func New(log *logger.Logger, v vision.Describer, e Embedder, s SimilarFinder, agg Aggregation) *Service {
	return &Service{log: log.With("service", "Analyze"), vision: v, embed: e, similar: s, agg: agg}
}

func (s *Service) Analyze(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Image) == "" {
		return nil, ErrImageRequired
	}

	analysis, err := s.vision.AnalyzeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	description := fmt.Sprintf("%s %s %s", analysis.Color, strings.Join(analysis.StyleTags, " "), analysis.Category)
	vecs, err := s.embed.Embed(ctx, []string{description})
	if err != nil {
		return nil, fmt.Errorf("embedding: %w", err)
	}
	var embedding []float32
	if len(vecs) > 0 {
		embedding = vecs[0]
	}

	query := buildSearchQuery(analysis)
	similarProducts := s.similar.FindSimilarProducts(ctx, embedding, query)

	ideas := make([]EnrichedIdea, len(analysis.OutfitIdeas))
	var g errgroup.Group
	for i, idea := range analysis.OutfitIdeas {
		i, idea := i, idea
		g.Go(func() error {
			ideas[i] = EnrichedIdea{
				Description: idea.Description,
				SearchQuery: idea.SearchQuery,
				Products:    s.agg.FindProductsByQuery(ctx, idea.SearchQuery),
			}
			return nil
		})
	}
	_ = g.Wait()

	var verdict *pricing.PriceVerdict
	if len(similarProducts) > 0 {
		verdict = pricing.CalculateVerdict(req.UserPrice, similarProducts)
		if verdict != nil && req.UserPrice <= 0 {
			// Stats are still worth showing, but there is nothing to
			// classify without a declared price.
			verdict.Verdict = ""
		}
	}

	return &Response{
		Analysis: EnrichedAnalysis{
			Category:    analysis.Category,
			Color:       analysis.Color,
			StyleTags:   analysis.StyleTags,
			Brand:       analysis.Brand,
			OutfitIdeas: ideas,
		},
		SimilarProducts: similarProducts,
		Pricing:         verdict,
	}, nil
}

// buildSearchQuery derives the primary "similar listings" search term:
// first style tag, then brand (when attributed), then color and category.
func buildSearchQuery(a *vision.Analysis) string {
	parts := make([]string, 0, 4)
	if len(a.StyleTags) > 0 && strings.TrimSpace(a.StyleTags[0]) != "" {
		parts = append(parts, a.StyleTags[0])
	}
	if b := strings.TrimSpace(a.Brand); b != "" && !strings.EqualFold(b, "unknown") {
		parts = append(parts, b)
	}
	if strings.TrimSpace(a.Color) != "" {
		parts = append(parts, a.Color)
	}
	parts = append(parts, a.Category)
	return strings.Join(parts, " ")
}
