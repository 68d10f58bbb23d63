package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"cryptotrend/internal/source"
)

const defaultBaseURL = "https://api.coingecko.com/api/v3"

// ErrEmptyResponse is returned when the API answers 200 with no data.
var ErrEmptyResponse = errors.New("coingecko: empty response")

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=coingecko_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

type Config struct {
	Name    string
	BaseURL string
	Headers map[string]string
}

// Client fetches spot prices from the CoinGecko simple/price endpoint.
type Client struct {
	cfg    Config
	client HTTPClient
}

func New(cfg Config, hc HTTPClient) *Client {
	if cfg.Name == "" {
		cfg.Name = "CoinGecko"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &Client{cfg: cfg, client: hc}
}

func (c *Client) Name() string { return c.cfg.Name }

// Fetch performs a single GET with both sets comma-joined as query params.
// A transport error, a non-2xx status, or an empty decoded body is an error;
// recovery is the caller's concern (see the fallback wrapper).
func (c *Client) Fetch(ctx context.Context, coinIDs, vsCurrencies []string) (source.PriceMap, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(coinIDs, ","))
	query.Set("vs_currencies", strings.Join(vsCurrencies, ","))

	reqURL := fmt.Sprintf("%s/simple/price?%s", c.cfg.BaseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	for k, v := range c.cfg.Headers {
		req.Header.Set(k, v)
	}

	res, err := c.client.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	var raw source.PriceMap
	if err := json.NewDecoder(res.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding price response: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}
	return raw, nil
}
