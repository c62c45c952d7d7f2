package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"fitcheck/internal/logger"
	"fitcheck/internal/openai"
)

// Describer turns a clothing photo into a structured description.
type Describer interface {
	AnalyzeImage(ctx context.Context, imageRef string) (*Analysis, error)
}

// OutfitIdea is one styling suggestion with its own product search term.
type OutfitIdea struct {
	Description string `json:"description"`
	SearchQuery string `json:"searchQuery"`
}

// Analysis is the structured description of one clothing item.
type Analysis struct {
	Category    string       `json:"category"`
	Color       string       `json:"color"`
	StyleTags   []string     `json:"styleTags"`
	Brand       string       `json:"brand,omitempty"`
	OutfitIdeas []OutfitIdea `json:"outfitIdeas"`
}

const systemPrompt = `You are a high-end celebrity wardrobe stylist. You identify garments precisely and suggest how to style them. Be decisive; use high-fashion vocabulary; comment on proportion and silhouette.

Return a JSON object with exactly these keys:
- category (string): the garment type
- color (string): the dominant color
- styleTags (array of strings): aesthetic tags, e.g. "Vintage", "Gorpcore"
- brand (string): only if visible on the item, else null
- outfitIdeas (array of exactly 3 objects): each with 'description' (the stylized suggestion) and 'searchQuery' (a simple product search term)`

const userPrompt = "Analyze this clothing item."

type describer struct {
	log    *logger.Logger
	client openai.Client
}

func NewDescriber(log *logger.Logger, client openai.Client) (Describer, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if client == nil {
		return nil, fmt.Errorf("openai client required")
	}
	return &describer{log: log.With("service", "Vision"), client: client}, nil
}

// AnalyzeImage is load-bearing for the whole request: any transport,
// refusal or shape problem here is returned to the caller instead of
// being degraded to an empty result.
func (d *describer) AnalyzeImage(ctx context.Context, imageRef string) (*Analysis, error) {
	obj, err := d.client.GenerateJSONWithImage(ctx, systemPrompt, userPrompt, imageRef)
	if err != nil {
		return nil, fmt.Errorf("vision analysis: %w", err)
	}

	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("vision analysis: %w", err)
	}
	var a Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("vision analysis: malformed response: %w", err)
	}
	if strings.TrimSpace(a.Category) == "" {
		return nil, fmt.Errorf("vision analysis: response missing category")
	}
	if len(a.OutfitIdeas) == 0 {
		return nil, fmt.Errorf("vision analysis: response missing outfit ideas")
	}
	return &a, nil
}
