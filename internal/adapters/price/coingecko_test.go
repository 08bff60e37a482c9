package price

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adhttp "github.com/ohmynofan/weth-wrapper/internal/adapters/http"
)

func TestPriceReadsNestedQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "ethereum", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "secret", r.Header.Get("x-cg-pro-api-key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"ethereum":{"usd":1234.567}}`)
	}))
	defer srv.Close()

	cg := NewCoinGecko(srv.URL+"/", "secret", time.Second)
	p, err := cg.Price(context.Background(), "Ethereum", "USD")
	require.NoError(t, err)
	require.Equal(t, 1234.567, p)
}

func TestPriceMissingKeys(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"ethereum":{"eur":1000}}`)
	}))
	defer srv.Close()

	cg := NewCoinGecko(srv.URL, "", time.Second)
	_, err := cg.Price(context.Background(), "ethereum", "usd")
	require.ErrorContains(t, err, `missing currency "usd"`)

	_, err = cg.Price(context.Background(), "bitcoin", "usd")
	require.ErrorContains(t, err, `missing "bitcoin" key`)
}

func TestPriceHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewCoinGecko(srv.URL, "", time.Second).Price(context.Background(), "ethereum", "usd")
	var httpErr *adhttp.HTTPError
	require.True(t, errors.As(err, &httpErr))
	require.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestPriceRequiresAssetAndCurrency(t *testing.T) {
	_, err := NewCoinGecko("", "", 0).Price(context.Background(), "", "usd")
	require.Error(t, err)
}
