package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"crypto-tracker-go/internal/market"
	"crypto-tracker-go/internal/models"
	"crypto-tracker-go/internal/valuation"
	"go.uber.org/zap"
)

var (
	ErrMissingOwner  = errors.New("owner identifier missing")
	ErrInvalidTrade  = errors.New("invalid trade")
	ErrUnknownSymbol = errors.New("invalid coin symbol")
	ErrProvider      = errors.New("price provider error")
	ErrNoTrades      = errors.New("no trades found for this user")
)

// SymbolResolver maps tickers to provider ids.
type SymbolResolver interface {
	Resolve(ctx context.Context, symbol string) market.Resolution
}

// PriceSource returns live unit prices by provider id.
type PriceSource interface {
	CurrentPrice(ctx context.Context, coinID string) (float64, error)
}

// TradeRepository is the persistence the service needs.
type TradeRepository interface {
	Insert(ctx context.Context, trade *models.Trade) (uint, error)
	FindAllByOwner(ctx context.Context, owner string) ([]models.Trade, error)
	UpdateValuationFields(ctx context.Context, trades []models.Trade) error
}

// Service records trades and values portfolios against live prices.
type Service struct {
	resolver SymbolResolver
	prices   PriceSource
	trades   TradeRepository
	logger   *zap.Logger
}

func NewService(resolver SymbolResolver, prices PriceSource, trades TradeRepository, logger *zap.Logger) *Service {
	return &Service{
		resolver: resolver,
		prices:   prices,
		trades:   trades,
		logger:   logger.Named("portfolio"),
	}
}

// TradeRequest is a trade submission.
type TradeRequest struct {
	CoinSymbol  string  `json:"coin_symbol"`
	Quantity    float64 `json:"quantity"`
	AvgBuyPrice float64 `json:"avg_buy_price"`
}

func (r TradeRequest) Validate() error {
	var errs []error
	if strings.TrimSpace(r.CoinSymbol) == "" {
		errs = append(errs, errors.New("coin_symbol is required"))
	}
	if !(r.Quantity > 0) {
		errs = append(errs, fmt.Errorf("quantity must be greater than 0, got %v", r.Quantity))
	}
	if !(r.AvgBuyPrice > 0) {
		errs = append(errs, fmt.Errorf("avg_buy_price must be greater than 0, got %v", r.AvgBuyPrice))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTrade, errors.Join(errs...))
	}
	return nil
}

// CreateTrade validates, prices and stores a new trade. Nothing is stored if
// any step fails.
func (s *Service) CreateTrade(ctx context.Context, owner string, req TradeRequest) (*models.Trade, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res := s.resolver.Resolve(ctx, req.CoinSymbol)
	switch res.Status {
	case market.StatusNotFound:
		return nil, fmt.Errorf("%w: %s. This symbol was not found on CoinGecko", ErrUnknownSymbol, req.CoinSymbol)
	case market.StatusProviderError:
		return nil, fmt.Errorf("%w: %w", ErrProvider, res.Err)
	}

	price, err := s.prices.CurrentPrice(ctx, res.CoinID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvider, err)
	}

	pos := valuation.Value(req.Quantity, req.AvgBuyPrice, price)
	if !pos.Finite() {
		return nil, fmt.Errorf("%w: quantity %v at %v is out of range", ErrInvalidTrade, req.Quantity, req.AvgBuyPrice)
	}
	trade := &models.Trade{
		UserID:        owner,
		CoinSymbol:    strings.ToUpper(strings.TrimSpace(req.CoinSymbol)),
		Quantity:      req.Quantity,
		AvgBuyPrice:   req.AvgBuyPrice,
		CurrentPrice:  pos.CurrentPrice,
		UnrealizedPnL: pos.UnrealizedPnL,
		PercentChange: pos.PercentChange,
	}
	if _, err := s.trades.Insert(ctx, trade); err != nil {
		return nil, fmt.Errorf("an error occurred while creating the trade: %w", err)
	}

	s.logger.Info("Trade created",
		zap.Uint("trade_id", trade.ID),
		zap.String("owner", owner),
		zap.String("symbol", trade.CoinSymbol),
		zap.String("coin_id", res.CoinID),
		zap.Float64("price", price),
	)
	return trade, nil
}

// TradeAnalysis is one trade valued during an analysis.
type TradeAnalysis struct {
	Trade    models.Trade
	Position valuation.Position
}

// Analysis is the valuation of all trades of one owner.
type Analysis struct {
	Totals valuation.Totals
	Trades []TradeAnalysis
}

// Analyze values every trade of owner at live prices.
//
// A trade whose symbol no longer resolves, or whose price cannot be fetched,
// is valued at its stored price instead of failing the analysis. Trades that
// were priced live have their stored price, P&L and percent change
// overwritten, so this read also writes. A failure to persist those updates is
// logged and does not affect the returned analysis.
func (s *Service) Analyze(ctx context.Context, owner string) (*Analysis, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}

	trades, err := s.trades.FindAllByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("an error occurred while fetching trades: %w", err)
	}
	if len(trades) == 0 {
		return nil, ErrNoTrades
	}

	out := &Analysis{Trades: make([]TradeAnalysis, 0, len(trades))}
	positions := make([]valuation.Position, 0, len(trades))
	refreshed := make([]models.Trade, 0, len(trades))

	for _, t := range trades {
		pos, err := s.liveValue(ctx, t)
		if err != nil {
			s.logger.Warn("Using stored price for trade",
				zap.Uint("trade_id", t.ID),
				zap.String("symbol", t.CoinSymbol),
				zap.Float64("stored_price", t.CurrentPrice),
				zap.Error(err),
			)
			pos = valuation.ValueFromStored(t.Quantity, t.AvgBuyPrice, t.CurrentPrice)
			if !pos.Finite() {
				s.logger.Warn("Skipping trade with out of range values", zap.Uint("trade_id", t.ID))
				continue
			}
		} else {
			t.CurrentPrice = pos.CurrentPrice
			t.UnrealizedPnL = pos.UnrealizedPnL
			t.PercentChange = pos.PercentChange
			refreshed = append(refreshed, t)
		}

		s.logger.Debug("Valued trade",
			zap.String("symbol", t.CoinSymbol),
			zap.Float64("quantity", pos.Quantity),
			zap.Float64("avg_buy_price", pos.AvgBuyPrice),
			zap.Float64("current_price", pos.CurrentPrice),
			zap.Float64("initial_investment", pos.InitialInvestment),
			zap.Float64("current_value", pos.CurrentValue),
			zap.Float64("unrealized_pnl", pos.UnrealizedPnL),
			zap.Float64("percent_change", pos.PercentChange),
			zap.Bool("fallback", pos.Fallback),
		)

		positions = append(positions, pos)
		out.Trades = append(out.Trades, TradeAnalysis{Trade: t, Position: pos})
	}

	out.Totals = valuation.Aggregate(positions)

	if err := s.trades.UpdateValuationFields(ctx, refreshed); err != nil {
		s.logger.Error("Error updating trade values", zap.String("owner", owner), zap.Error(err))
	}

	return out, nil
}

func (s *Service) liveValue(ctx context.Context, t models.Trade) (valuation.Position, error) {
	res := s.resolver.Resolve(ctx, t.CoinSymbol)
	if !res.Found() {
		if res.Err != nil {
			return valuation.Position{}, res.Err
		}
		return valuation.Position{}, fmt.Errorf("symbol %s no longer resolves", t.CoinSymbol)
	}

	price, err := s.prices.CurrentPrice(ctx, res.CoinID)
	if err != nil {
		return valuation.Position{}, err
	}
	pos := valuation.Value(t.Quantity, t.AvgBuyPrice, price)
	if !pos.Finite() {
		return valuation.Position{}, fmt.Errorf("value of %v %s at %v is out of range", t.Quantity, t.CoinSymbol, price)
	}
	return pos, nil
}

// ListTrades returns the stored trades of owner without repricing them.
func (s *Service) ListTrades(ctx context.Context, owner string) ([]models.Trade, error) {
	if owner == "" {
		return nil, ErrMissingOwner
	}
	trades, err := s.trades.FindAllByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("an error occurred while fetching trades: %w", err)
	}
	if trades == nil {
		trades = []models.Trade{}
	}
	return trades, nil
}
