package price

import (
	"context"
	"fmt"
	"strings"
	"time"

	adhttp "github.com/ohmynofan/weth-wrapper/internal/adapters/http"
)

const DefaultBaseURL = "https://api.coingecko.com/api/v3"

// CoinGecko quotes spot prices from /simple/price.
// The optional API key goes into the "x-cg-pro-api-key" header.
type CoinGecko struct {
	baseURL string
	apiKey  string
	api     *adhttp.APIClient
}

type simplePriceQuery struct {
	IDs          string `url:"ids"`
	VsCurrencies string `url:"vs_currencies"`
}

type simplePriceResponse map[string]map[string]float64

func NewCoinGecko(baseURL, apiKey string, timeout time.Duration) *CoinGecko {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &CoinGecko{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		api:     adhttp.NewAPIClient(timeout),
	}
}

func (c *CoinGecko) Price(ctx context.Context, assetID, currency string) (float64, error) {
	scope := "[CoinGecko Price] Error :"
	assetID = strings.ToLower(strings.TrimSpace(assetID))
	currency = strings.ToLower(strings.TrimSpace(currency))
	if assetID == "" || currency == "" {
		return 0, fmt.Errorf("%s asset id and currency are required", scope)
	}

	opts := &adhttp.FetchOptions{
		Query: simplePriceQuery{IDs: assetID, VsCurrencies: currency},
	}
	if c.apiKey != "" {
		opts.AdditionalHeaders = map[string]string{"x-cg-pro-api-key": c.apiKey}
	}

	var data simplePriceResponse
	if err := c.api.FetchJSON(ctx, c.baseURL+"/simple/price", opts, &data); err != nil {
		return 0, fmt.Errorf("%s %w", scope, err)
	}

	quotes, ok := data[assetID]
	if !ok {
		return 0, fmt.Errorf("%s missing %q key", scope, assetID)
	}
	value, ok := quotes[currency]
	if !ok {
		return 0, fmt.Errorf("%s missing currency %q", scope, currency)
	}
	return value, nil
}
