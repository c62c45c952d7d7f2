package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"fitcheck/internal/logger"
)

type stubOpenAI struct {
	obj map[string]any
	err error
}

func (s stubOpenAI) GenerateJSONWithImage(ctx context.Context, system, user, imageRef string) (map[string]any, error) {
	return s.obj, s.err
}

func (s stubOpenAI) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return nil, errors.New("not used")
}

func validObj() map[string]any {
	return map[string]any{
		"category":  "trench coat",
		"color":     "beige",
		"styleTags": []any{"Classic", "Officewear"},
		"brand":     "Burberry",
		"outfitIdeas": []any{
			map[string]any{"description": "Belted over wide-leg trousers", "searchQuery": "wide leg trousers"},
			map[string]any{"description": "Knee-high leather boots", "searchQuery": "knee high boots"},
			map[string]any{"description": "A silk scarf at the neckline", "searchQuery": "silk scarf"},
		},
	}
}

func TestAnalyzeImage_MapsStructuredResponse(t *testing.T) {
	d, err := NewDescriber(logger.NewNop(), stubOpenAI{obj: validObj()})
	require.NoError(t, err)

	a, err := d.AnalyzeImage(context.Background(), "data:image/jpeg;base64,abc")
	require.NoError(t, err)
	require.Equal(t, "trench coat", a.Category)
	require.Equal(t, "beige", a.Color)
	require.Equal(t, []string{"Classic", "Officewear"}, a.StyleTags)
	require.Equal(t, "Burberry", a.Brand)
	require.Len(t, a.OutfitIdeas, 3)
	require.Equal(t, "wide leg trousers", a.OutfitIdeas[0].SearchQuery)
}

func TestAnalyzeImage_NullBrandTolerated(t *testing.T) {
	obj := validObj()
	obj["brand"] = nil
	d, _ := NewDescriber(logger.NewNop(), stubOpenAI{obj: obj})

	a, err := d.AnalyzeImage(context.Background(), "img")
	require.NoError(t, err)
	require.Empty(t, a.Brand)
}

func TestAnalyzeImage_MissingCategoryRejected(t *testing.T) {
	obj := validObj()
	obj["category"] = "  "
	d, _ := NewDescriber(logger.NewNop(), stubOpenAI{obj: obj})

	_, err := d.AnalyzeImage(context.Background(), "img")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing category")
}

func TestAnalyzeImage_MissingIdeasRejected(t *testing.T) {
	obj := validObj()
	obj["outfitIdeas"] = []any{}
	d, _ := NewDescriber(logger.NewNop(), stubOpenAI{obj: obj})

	_, err := d.AnalyzeImage(context.Background(), "img")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing outfit ideas")
}

func TestAnalyzeImage_TransportErrorPropagates(t *testing.T) {
	d, _ := NewDescriber(logger.NewNop(), stubOpenAI{err: errors.New("status 429")})

	_, err := d.AnalyzeImage(context.Background(), "img")
	require.Error(t, err)
	require.Contains(t, err.Error(), "vision analysis")
	require.Contains(t, err.Error(), "429")
}

func TestNewDescriber_RequiresCollaborators(t *testing.T) {
	_, err := NewDescriber(nil, stubOpenAI{})
	require.Error(t, err)
	_, err = NewDescriber(logger.NewNop(), nil)
	require.Error(t, err)
}
