package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"crypto-tracker-go/internal/portfolio"
	"go.uber.org/zap"
)

type tradeResponse struct {
	Message string `json:"message"`
	TradeID uint   `json:"trade_id"`
}

type tradeAnalysisItem struct {
	CoinSymbol    string  `json:"coin_symbol"`
	Quantity      float64 `json:"quantity"`
	AvgBuyPrice   float64 `json:"avg_buy_price"`
	CurrentPrice  float64 `json:"current_price"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	PercentChange float64 `json:"percent_change"`
}

type portfolioAnalysisResponse struct {
	TotalPortfolioValue float64             `json:"total_portfolio_value"`
	TotalProfitLoss     float64             `json:"total_profit_loss"`
	TotalPercentChange  float64             `json:"total_percent_change"`
	TradesAnalysis      []tradeAnalysisItem `json:"trades_analysis"`
}

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, portfolio.ErrMissingOwner),
		errors.Is(err, portfolio.ErrInvalidTrade),
		errors.Is(err, portfolio.ErrUnknownSymbol):
		return http.StatusBadRequest
	case errors.Is(err, portfolio.ErrNoTrades):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleCreateTrade(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}

	var req portfolio.TradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	trade, err := s.service.CreateTrade(r.Context(), owner, req)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Failed to create trade", zap.String("owner", owner), zap.Error(err))
		}
		s.writeError(w, status, err.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, tradeResponse{Message: "Trade created successfully", TradeID: trade.ID})
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}

	analysis, err := s.service.Analyze(r.Context(), owner)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("Failed to analyze portfolio", zap.String("owner", owner), zap.Error(err))
		}
		s.writeError(w, status, err.Error())
		return
	}

	items := make([]tradeAnalysisItem, len(analysis.Trades))
	for i, ta := range analysis.Trades {
		items[i] = tradeAnalysisItem{
			CoinSymbol:    ta.Trade.CoinSymbol,
			Quantity:      ta.Position.Quantity,
			AvgBuyPrice:   ta.Position.AvgBuyPrice,
			CurrentPrice:  ta.Position.CurrentPrice,
			UnrealizedPnL: ta.Position.UnrealizedPnL,
			PercentChange: ta.Position.PercentChange,
		}
	}

	s.writeJSON(w, http.StatusOK, portfolioAnalysisResponse{
		TotalPortfolioValue: analysis.Totals.TotalValue,
		TotalProfitLoss:     analysis.Totals.TotalPnL,
		TotalPercentChange:  analysis.Totals.TotalPercentChange,
		TradesAnalysis:      items,
	})
}

func (s *Server) handleListTrades(w http.ResponseWriter, r *http.Request) {
	owner, ok := s.owner(w, r)
	if !ok {
		return
	}

	trades, err := s.service.ListTrades(r.Context(), owner)
	if err != nil {
		s.logger.Error("Failed to list trades", zap.String("owner", owner), zap.Error(err))
		s.writeError(w, statusFor(err), "failed to fetch trades")
		return
	}
	s.writeJSON(w, http.StatusOK, trades)
}

type healthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	Database      string `json:"database"`
	PriceProvider string `json:"price_provider"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Database:      "connected",
		PriceProvider: "reachable",
	}
	status := http.StatusOK

	if err := s.db.Ping(r.Context()); err != nil {
		resp.Status, resp.Database = "degraded", "disconnected"
		status = http.StatusServiceUnavailable
	}
	if err := s.provider.Ping(r.Context()); err != nil {
		resp.Status, resp.PriceProvider = "degraded", "unreachable"
	}

	s.writeJSON(w, status, resp)
}
