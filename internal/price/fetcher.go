package price

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Fetcher retrieves native-token prices from CoinGecko, used to show mint
// fees in USD.
type Fetcher struct {
	client   *http.Client
	currency string
}

// NewFetcher creates a new price fetcher.
func NewFetcher(currency string) *Fetcher {
	if currency == "" {
		currency = "usd"
	}
	return &Fetcher{
		client:   &http.Client{Timeout: 10 * time.Second},
		currency: strings.ToLower(currency),
	}
}

// coinGeckoIDs maps listing network slugs to CoinGecko coin IDs. Testnets
// price against their mainnet token.
var coinGeckoIDs = map[string]string{
	"ethereum":     "ethereum",
	"sepolia":      "ethereum",
	"base":         "ethereum",
	"base-sepolia": "ethereum",
	"optimism":     "ethereum",
}

// GetPrice returns the price for a network's native token.
func (f *Fetcher) GetPrice(network string) (float64, error) {
	id, ok := coinGeckoIDs[strings.ToLower(network)]
	if !ok {
		return 0, fmt.Errorf("unknown network: %s", network)
	}

	prices, err := f.fetchBatch([]string{id})
	if err != nil {
		return 0, err
	}
	p, ok := prices[id]
	if !ok {
		return 0, fmt.Errorf("price not available for: %s", id)
	}
	return p, nil
}

func (f *Fetcher) fetchBatch(ids []string) (map[string]float64, error) {
	url := fmt.Sprintf(
		"https://api.coingecko.com/api/v3/simple/price?ids=%s&vs_currencies=%s",
		strings.Join(ids, ","),
		f.currency,
	)

	resp, err := f.client.Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching prices: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading price response: %w", err)
	}

	// Response: {"ethereum":{"usd":1234.56}, ...}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing price response: %w", err)
	}

	prices := make(map[string]float64)
	for id, currencies := range raw {
		if p, ok := currencies[f.currency]; ok {
			prices[id] = p
		}
	}
	return prices, nil
}
