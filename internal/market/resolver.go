package market

import (
	"context"
	"fmt"
	"strings"

	"crypto-tracker-go/internal/cache"
	"crypto-tracker-go/internal/coingecko"
	"go.uber.org/zap"
)

// Status is the outcome of a symbol resolution.
type Status int

const (
	StatusNotFound Status = iota
	StatusFound
	StatusProviderError
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusProviderError:
		return "provider_error"
	default:
		return "not_found"
	}
}

// Tier identifies which lookup answered a resolution.
type Tier int

const (
	TierNone Tier = iota
	TierCache
	TierMajor
	TierRanked
	TierCatalog
)

func (t Tier) String() string {
	switch t {
	case TierCache:
		return "cache"
	case TierMajor:
		return "major"
	case TierRanked:
		return "ranked"
	case TierCatalog:
		return "catalog"
	default:
		return "none"
	}
}

// Resolution is the result of mapping a ticker to a CoinGecko id.
// CoinID is set only when Status is StatusFound, Err only when Status is
// StatusProviderError.
type Resolution struct {
	Symbol string
	CoinID string
	Status Status
	Tier   Tier
	Err    error
}

func (r Resolution) Found() bool { return r.Status == StatusFound }

// Resolver maps ticker symbols to CoinGecko ids, trying the memo cache, the
// major-coin table, the market-cap ranked page and finally the full catalog.
// Successful lookups are cached for the lifetime of the process.
type Resolver struct {
	client   coingecko.RestClientInterface
	pageSize int
	ids      *cache.MapCache[string, string]
	logger   *zap.Logger
}

// NewResolver creates a resolver that scans the top pageSize coins by market
// cap before falling back to the full catalog.
func NewResolver(client coingecko.RestClientInterface, pageSize int, logger *zap.Logger) *Resolver {
	return &Resolver{
		client:   client,
		pageSize: pageSize,
		ids:      cache.NewMapCache[string, string](),
		logger:   logger.Named("resolver"),
	}
}

// Resolve looks up the CoinGecko id for symbol. Provider failures are
// reported as StatusProviderError, never as StatusNotFound.
func (r *Resolver) Resolve(ctx context.Context, symbol string) Resolution {
	key := strings.ToLower(strings.TrimSpace(symbol))
	res := Resolution{Symbol: strings.ToUpper(key)}
	if key == "" {
		return res
	}

	if id, ok := r.ids.Get(key); ok {
		return r.found(res, id, TierCache)
	}

	if id, ok := majorCoins[key]; ok {
		return r.remember(key, r.found(res, id, TierMajor))
	}

	ranked, err := r.client.GetCoinsMarkets(ctx, coingecko.MarketsQuery{
		Order:   coingecko.OrderMarketCapDesc,
		PerPage: r.pageSize,
		Page:    1,
	})
	if err != nil {
		return r.failed(res, err)
	}
	for _, coin := range ranked {
		if strings.EqualFold(coin.Symbol, key) {
			return r.remember(key, r.found(res, coin.ID, TierRanked))
		}
	}

	catalog, err := r.client.GetCoinsList(ctx)
	if err != nil {
		return r.failed(res, err)
	}
	for _, coin := range catalog {
		if strings.EqualFold(coin.Symbol, key) {
			return r.remember(key, r.found(res, coin.ID, TierCatalog))
		}
	}

	r.logger.Debug("No match found for symbol", zap.String("symbol", res.Symbol))
	return res
}

func (r *Resolver) found(res Resolution, id string, tier Tier) Resolution {
	res.CoinID = id
	res.Status = StatusFound
	res.Tier = tier
	r.logger.Debug("Matched coin",
		zap.String("symbol", res.Symbol),
		zap.String("coin_id", id),
		zap.Stringer("tier", tier),
	)
	return res
}

func (r *Resolver) remember(key string, res Resolution) Resolution {
	r.ids.Set(key, res.CoinID)
	return res
}

func (r *Resolver) failed(res Resolution, err error) Resolution {
	res.Status = StatusProviderError
	res.Err = fmt.Errorf("error fetching coin data for %s: %w", res.Symbol, err)
	r.logger.Warn("Symbol resolution failed", zap.String("symbol", res.Symbol), zap.Error(err))
	return res
}
