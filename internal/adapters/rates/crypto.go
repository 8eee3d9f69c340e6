package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CryptoSource fetches crypto ticker prices from a coinmarketcap-style JSON
// endpoint: a top-level array of ticker objects carrying a "symbol" and a
// "price_eur" field. Prices are expressed in the base currency per coin; the
// converter is responsible for inverting them into units-per-base rates.
type CryptoSource struct {
	url    string
	client *http.Client
}

// NewCryptoSource creates a CryptoSource against the given ticker URL.
func NewCryptoSource(url string, timeout time.Duration) *CryptoSource {
	return &CryptoSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type cryptoTicker struct {
	Symbol string `json:"symbol"`
	// price_eur arrives as a string from some providers and as a bare number
	// from others; keeping it raw preserves full precision either way.
	PriceEUR json.RawMessage `json:"price_eur"`
}

// FetchPrices downloads and parses the ticker list. Entries that fail to
// decode or carry a malformed or non-positive price are skipped; only a
// failure to retrieve or parse the list as a whole is an error.
func (s *CryptoSource) FetchPrices(ctx context.Context) (map[string]decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build crypto price request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch crypto prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crypto price feed returned status %d", resp.StatusCode)
	}

	var entries []json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse crypto price feed: %w", err)
	}

	prices := make(map[string]decimal.Decimal, len(entries))
	for _, entry := range entries {
		var ticker cryptoTicker
		if err := json.Unmarshal(entry, &ticker); err != nil {
			continue
		}
		if ticker.Symbol == "" || len(ticker.PriceEUR) == 0 {
			continue
		}
		price, err := decimal.NewFromString(strings.Trim(string(ticker.PriceEUR), `"`))
		if err != nil || !price.IsPositive() {
			continue
		}
		prices[ticker.Symbol] = price
	}
	return prices, nil
}
