package market

import (
	"context"
	"errors"
	"fmt"

	"crypto-tracker-go/internal/coingecko"
)

// ErrPriceUnavailable is returned when the provider answers without a usable
// price for the requested coin: no entry, a null price or a negative one.
var ErrPriceUnavailable = errors.New("no price data found")

// PriceLookup fetches unit prices in the client's reference currency.
type PriceLookup struct {
	client coingecko.RestClientInterface
}

func NewPriceLookup(client coingecko.RestClientInterface) *PriceLookup {
	return &PriceLookup{client: client}
}

// CurrentPrice returns the price of one unit of coinID. Scaling by a held
// quantity is left to the caller.
func (p *PriceLookup) CurrentPrice(ctx context.Context, coinID string) (float64, error) {
	coins, err := p.client.GetCoinsMarkets(ctx, coingecko.MarketsQuery{
		IDs:     []string{coinID},
		Order:   coingecko.OrderMarketCapDesc,
		PerPage: 1,
		Page:    1,
	})
	if err != nil {
		return 0, fmt.Errorf("error fetching price data for %s: %w", coinID, err)
	}
	if len(coins) == 0 || coins[0].CurrentPrice == nil || *coins[0].CurrentPrice < 0 {
		return 0, fmt.Errorf("%w for coin %s", ErrPriceUnavailable, coinID)
	}
	return *coins[0].CurrentPrice, nil
}
