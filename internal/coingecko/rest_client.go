package coingecko

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"crypto-tracker-go/internal/config"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	apiKeyHeader       = "x-cg-demo-api-key"
	OrderMarketCapDesc = "market_cap_desc"
)

// RestClientInterface defines the CoinGecko endpoints the service depends on.
type RestClientInterface interface {
	Ping(ctx context.Context) error
	GetCoinsMarkets(ctx context.Context, q MarketsQuery) ([]MarketCoin, error)
	GetCoinsList(ctx context.Context) ([]Coin, error)
}

// RestClient is a client for the CoinGecko REST API.
// Every request waits on a rate limiter and is executed exactly once.
type RestClient struct {
	client     *resty.Client
	vsCurrency string
	logger     *zap.Logger
	limiter    *rate.Limiter
}

// ensure RestClient implements the interface
var _ RestClientInterface = (*RestClient)(nil)

// NewRestClient creates a new CoinGecko REST API client.
func NewRestClient(cfg *config.CoinGecko, logger *zap.Logger) *RestClient {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json")
	if cfg.ApiKey != "" {
		client.SetHeader(apiKeyHeader, cfg.ApiKey)
	}
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.RateLimitBurst
	if burst < 1 {
		burst = 1
	}

	return &RestClient{
		client:     client,
		vsCurrency: cfg.VsCurrency,
		logger:     logger.Named("coingecko"),
		limiter:    rate.NewLimiter(limit, burst),
	}
}

// doRequest waits for the limiter and executes the request once.
// Transport failures and non-2xx answers are both returned as errors.
func (c *RestClient) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait failed: %w", err)
	}

	c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
	resp, err := req.SetContext(ctx).Execute(method, url)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
	}
	return resp, nil
}

// Ping checks that the API is reachable.
func (c *RestClient) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, "GET", "/ping", c.client.R()); err != nil {
		return fmt.Errorf("failed to ping coingecko: %w", err)
	}
	return nil
}

// MarketsQuery selects a page of /coins/markets.
type MarketsQuery struct {
	IDs     []string
	Order   string
	PerPage int
	Page    int
}

// MarketCoin is one entry of /coins/markets. CurrentPrice is nil when the
// provider has no price for the coin.
type MarketCoin struct {
	ID            string   `json:"id"`
	Symbol        string   `json:"symbol"`
	Name          string   `json:"name"`
	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     *float64 `json:"market_cap"`
	MarketCapRank *int     `json:"market_cap_rank"`
}

// GetCoinsMarkets fetches market data in the configured reference currency.
func (c *RestClient) GetCoinsMarkets(ctx context.Context, q MarketsQuery) ([]MarketCoin, error) {
	params := map[string]string{
		"vs_currency": c.vsCurrency,
		"sparkline":   "false",
	}
	if len(q.IDs) > 0 {
		params["ids"] = strings.Join(q.IDs, ",")
	}
	if q.Order != "" {
		params["order"] = q.Order
	}
	if q.PerPage > 0 {
		params["per_page"] = strconv.Itoa(q.PerPage)
	}
	if q.Page > 0 {
		params["page"] = strconv.Itoa(q.Page)
	}

	var coins []MarketCoin
	req := c.client.R().
		SetQueryParams(params).
		SetResult(&coins)

	resp, err := c.doRequest(ctx, "GET", "/coins/markets", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get coins markets: %w", err)
	}

	return *resp.Result().(*[]MarketCoin), nil
}

// Coin is one entry of the unranked /coins/list catalog.
type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// GetCoinsList fetches the full coin catalog.
func (c *RestClient) GetCoinsList(ctx context.Context) ([]Coin, error) {
	var coins []Coin
	req := c.client.R().SetResult(&coins)

	resp, err := c.doRequest(ctx, "GET", "/coins/list", req)
	if err != nil {
		return nil, fmt.Errorf("failed to get coins list: %w", err)
	}

	return *resp.Result().(*[]Coin), nil
}
