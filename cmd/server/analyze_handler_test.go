package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"fitcheck/internal/analyze"
	"fitcheck/internal/listing"
	"fitcheck/internal/logger"
	"fitcheck/internal/vision"
)

type fakeDescriber struct {
	analysis *vision.Analysis
	err      error
}

func (f fakeDescriber) AnalyzeImage(ctx context.Context, imageRef string) (*vision.Analysis, error) {
	return f.analysis, f.err
}

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(ctx context.Context, inputs []string) ([][]float32, error) {
	return [][]float32{{0.5}}, nil
}

type fakeSimilar struct{ results []listing.Listing }

func (f fakeSimilar) FindSimilarProducts(ctx context.Context, embedding []float32, query string) []listing.Listing {
	return f.results
}

type fakeAgg struct{}

func (fakeAgg) FindProductsByQuery(ctx context.Context, query string) []listing.Listing {
	return nil
}

func testAnalysis() *vision.Analysis {
	return &vision.Analysis{
		Category:  "hoodie",
		Color:     "black",
		StyleTags: []string{"Streetwear"},
		OutfitIdeas: []vision.OutfitIdea{
			{Description: "Cargo pants", SearchQuery: "cargo pants"},
		},
	}
}

func newTestRouter(d vision.Describer, sim analyze.SimilarFinder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	svc := analyze.New(log, d, fakeEmbedder{}, sim, fakeAgg{})
	h := newAnalyzeHandler(log, svc)

	r := gin.New()
	r.POST("/api/analyze", h.Analyze)
	return r
}

func post(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAnalyzeEndpoint_OK(t *testing.T) {
	sim := fakeSimilar{results: []listing.Listing{
		{Name: "Heavy hoodie", Price: listing.PriceOf(40), URL: "https://x"},
		{Name: "Boxy hoodie", Price: listing.PriceOf(60), URL: "https://y"},
		{Name: "Zip hoodie", Price: listing.PriceOf(80), URL: "https://z"},
	}}
	r := newTestRouter(fakeDescriber{analysis: testAnalysis()}, sim)

	w := post(t, r, `{"image": "data:image/png;base64,abc", "userPrice": 55}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Analysis struct {
			Category    string `json:"category"`
			OutfitIdeas []struct {
				SearchQuery string `json:"searchQuery"`
			} `json:"outfitIdeas"`
		} `json:"analysis"`
		SimilarProducts []json.RawMessage `json:"similarProducts"`
		Pricing         *struct {
			Verdict     string  `json:"verdict"`
			MedianPrice float64 `json:"medianPrice"`
		} `json:"pricing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "hoodie", resp.Analysis.Category)
	require.Len(t, resp.Analysis.OutfitIdeas, 1)
	require.Len(t, resp.SimilarProducts, 3)
	require.NotNil(t, resp.Pricing)
	require.Equal(t, "FAIR", resp.Pricing.Verdict)
	require.Equal(t, 60.0, resp.Pricing.MedianPrice)
}

func TestAnalyzeEndpoint_MissingImage(t *testing.T) {
	r := newTestRouter(fakeDescriber{analysis: testAnalysis()}, fakeSimilar{})

	w := post(t, r, `{"userPrice": 30}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "image is required")
}

func TestAnalyzeEndpoint_InvalidJSON(t *testing.T) {
	r := newTestRouter(fakeDescriber{analysis: testAnalysis()}, fakeSimilar{})

	w := post(t, r, `{"image": `)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "invalid JSON body")
}

func TestAnalyzeEndpoint_UpstreamFailure(t *testing.T) {
	r := newTestRouter(fakeDescriber{err: errors.New("vision analysis: status 503")}, fakeSimilar{})

	w := post(t, r, `{"image": "img"}`)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "vision analysis")
}
