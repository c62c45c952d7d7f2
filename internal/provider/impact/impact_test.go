package impact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fitcheck/internal/httpx"
	"fitcheck/internal/logger"
)

func TestSearch_MissingCredentialsSkips(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no network call expected without credentials")
	}))
	defer srv.Close()

	p := New(Config{Endpoint: srv.URL}, logger.NewNop(), httpx.New(time.Second))
	got, err := p.Search(context.Background(), "q")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSearch_BasicAuthAndMapping(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid, token, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "sid-1", sid)
		require.Equal(t, "tok-1", token)
		require.Equal(t, "vintage tee", r.URL.Query().Get("Query"))
		require.Equal(t, "5", r.URL.Query().Get("Limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Items": [
			{"Id": "A1", "Name": "Band Tee", "CurrentPrice": "24.99", "Currency": "USD", "ImageUrl": "https://img/1.jpg", "Url": "https://track.impact.com/1", "Manufacturer": "Hanes"},
			{"Id": "A2", "Name": "No URL", "CurrentPrice": "10", "Url": ""},
			{"Id": "A3", "Name": "Fallback Price", "Price": 31.5, "Url": "https://track.impact.com/3"},
			{"Id": "A4", "Name": "Call For Price", "CurrentPrice": "call for price", "Price": "", "Url": "https://track.impact.com/4"}
		]}`))
	}))
	defer srv.Close()

	p := New(Config{AccountSID: "sid-1", AuthToken: "tok-1", Endpoint: srv.URL}, logger.NewNop(), httpx.New(time.Second))
	got, err := p.Search(context.Background(), "vintage tee")
	require.NoError(t, err)
	require.Len(t, got, 3)

	first := got[0]
	require.Equal(t, "impact-A1", first.ID)
	require.Equal(t, "Hanes", first.Platform)
	require.Equal(t, "Band Tee", first.Name)
	require.NotNil(t, first.Price)
	require.Equal(t, 24.99, *first.Price)
	require.True(t, first.IsAffiliate)
	require.Equal(t, "Impact", first.Source)
	require.Equal(t, "Hanes", first.Brand)

	// CurrentPrice absent, Price field carries the value; Manufacturer
	// absent defaults the platform name.
	second := got[1]
	require.Equal(t, "impact-A3", second.ID)
	require.Equal(t, "Impact Retailer", second.Platform)
	require.NotNil(t, second.Price)
	require.Equal(t, 31.5, *second.Price)
	require.Equal(t, "USD", second.Currency)

	// Unparsable price text keeps the listing, just with no price.
	third := got[2]
	require.Equal(t, "impact-A4", third.ID)
	require.Nil(t, third.Price)
}

func TestSearch_NonSuccessStatusReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	p := New(Config{AccountSID: "sid", AuthToken: "tok", Endpoint: srv.URL}, logger.NewNop(), httpx.New(time.Second))
	got, err := p.Search(context.Background(), "q")
	require.Error(t, err)
	require.Empty(t, got)
}

func TestSearch_MalformedBodyReturnsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	p := New(Config{AccountSID: "sid", AuthToken: "tok", Endpoint: srv.URL}, logger.NewNop(), httpx.New(time.Second))
	got, err := p.Search(context.Background(), "q")
	require.Error(t, err)
	require.Empty(t, got)
}
