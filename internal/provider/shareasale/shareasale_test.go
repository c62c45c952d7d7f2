package shareasale

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"fitcheck/internal/logger"
)

func fixedNow() time.Time {
	return time.Date(2015, 10, 21, 7, 28, 0, 0, time.UTC)
}

func testConfig() Config {
	return Config{
		Token:       "mytoken",
		Secret:      "mysecret",
		AffiliateID: "12345",
	}
}

func jsonBody(s string) io.ReadCloser {
	return io.NopCloser(bytes.NewBufferString(s))
}

func TestSearch_MissingCredentialsSkipsNetworkCall(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	// No EXPECT: any Do call fails the test.

	p := New(Config{Token: "only-token"}, logger.NewNop(), httpClient)
	got, err := p.Search(context.Background(), "denim jacket")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSearch_SignsRequestWithPinnedTimestamp(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	wantDate := fixedNow().UTC().Format(http.TimeFormat)
	wantSig := Sign("mytoken", wantDate, "productSearch", "mysecret")

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			require.Equal(t, wantDate, req.Header.Get("x-ShareASale-Date"))
			require.Equal(t, wantSig, req.Header.Get("x-ShareASale-Authentication"))
			require.Equal(t, "productSearch", req.URL.Query().Get("action"))
			require.Equal(t, "12345", req.URL.Query().Get("affiliateId"))
			require.Equal(t, "denim jacket", req.URL.Query().Get("keyword"))
			require.Equal(t, "json", req.URL.Query().Get("format"))
			return &http.Response{StatusCode: http.StatusOK, Body: jsonBody(`{"products":[]}`)}, nil
		}).
		Times(1)

	p := New(testConfig(), logger.NewNop(), httpClient)
	p.now = fixedNow

	got, err := p.Search(context.Background(), "denim jacket")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSearch_MapsProducts(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		DoAndReturn(func(req *http.Request) (*http.Response, error) {
			return &http.Response{StatusCode: http.StatusOK, Body: jsonBody(`{
				"products": [
					{"productId": 991, "merchant": "Thread Supply", "name": "Corduroy Jacket", "price": "58.50", "image": "https://img.example/1.jpg", "link": "https://shareasale.com/r.cfm?b=1"},
					{"productId": 992, "merchant": "", "name": "No Link Item", "price": "10", "link": ""},
					{"productId": 993, "name": "Priceless", "price": "n/a", "link": "https://shareasale.com/r.cfm?b=3"}
				]
			}`)}, nil
		}).
		Times(1)

	p := New(testConfig(), logger.NewNop(), httpClient)

	got, err := p.Search(context.Background(), "corduroy jacket")
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	require.Equal(t, "sas-991", first.ID)
	require.Equal(t, "Thread Supply", first.Platform)
	require.Equal(t, "Corduroy Jacket", first.Name)
	require.NotNil(t, first.Price)
	require.Equal(t, 58.50, *first.Price)
	require.Equal(t, "USD", first.Currency)
	require.Equal(t, "https://img.example/1.jpg", first.ImageURL)
	require.True(t, first.IsAffiliate)
	require.Equal(t, "ShareASale", first.Source)
	require.Equal(t, "Thread Supply", first.Brand)

	// Unparsable price maps to no price, listing survives.
	require.Equal(t, "sas-993", got[1].ID)
	require.Nil(t, got[1].Price)
}

func TestSearch_NonSuccessStatusReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(&http.Response{StatusCode: http.StatusForbidden, Body: jsonBody(`denied`)}, nil).
		Times(1)

	p := New(testConfig(), logger.NewNop(), httpClient)
	got, err := p.Search(context.Background(), "q")
	require.Error(t, err)
	require.Empty(t, got)
}

func TestSearch_TransportErrorReturnsError(t *testing.T) {
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)

	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(nil, errors.New("connection reset")).
		Times(1)

	p := New(testConfig(), logger.NewNop(), httpClient)
	got, err := p.Search(context.Background(), "q")
	require.Error(t, err)
	require.Empty(t, got)
}
