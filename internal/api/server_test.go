package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"crypto-tracker-go/internal/config"
	"crypto-tracker-go/internal/models"
	"crypto-tracker-go/internal/portfolio"
	"crypto-tracker-go/internal/valuation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// MockService is a mock implementation of PortfolioService.
type MockService struct {
	mock.Mock
}

func (m *MockService) CreateTrade(ctx context.Context, owner string, req portfolio.TradeRequest) (*models.Trade, error) {
	args := m.Called(owner, req)
	trade, _ := args.Get(0).(*models.Trade)
	return trade, args.Error(1)
}

func (m *MockService) Analyze(ctx context.Context, owner string) (*portfolio.Analysis, error) {
	args := m.Called(owner)
	analysis, _ := args.Get(0).(*portfolio.Analysis)
	return analysis, args.Error(1)
}

func (m *MockService) ListTrades(ctx context.Context, owner string) ([]models.Trade, error) {
	args := m.Called(owner)
	trades, _ := args.Get(0).([]models.Trade)
	return trades, args.Error(1)
}

type pinger struct{ err error }

func (p pinger) Ping(ctx context.Context) error { return p.err }

func setupServer(svc PortfolioService, db, provider Pinger) http.Handler {
	cfg := &config.Server{Port: 8000, OwnerHeader: "User-ID", CORSOrigins: []string{"*"}}
	return NewServer(cfg, svc, db, provider, zap.NewNop()).Handler()
}

func do(h http.Handler, method, path, owner, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if owner != "" {
		req.Header.Set("User-ID", owner)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func TestCreateTrade(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		req := portfolio.TradeRequest{CoinSymbol: "BTC", Quantity: 1, AvgBuyPrice: 20000}
		svc.On("CreateTrade", "alice", req).Return(&models.Trade{ID: 7}, nil)
		h := setupServer(svc, pinger{}, pinger{})

		rec := do(h, http.MethodPost, "/trades", "alice", `{"coin_symbol":"BTC","quantity":1,"avg_buy_price":20000}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"message":"Trade created successfully","trade_id":7}`, rec.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("MissingOwner", func(t *testing.T) {
		svc := new(MockService)
		h := setupServer(svc, pinger{}, pinger{})

		rec := do(h, http.MethodPost, "/trades", "", `{"coin_symbol":"BTC","quantity":1,"avg_buy_price":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User-ID header missing", decodeDetail(t, rec))
		svc.AssertNotCalled(t, "CreateTrade", mock.Anything, mock.Anything)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		h := setupServer(new(MockService), pinger{}, pinger{})

		rec := do(h, http.MethodPost, "/trades", "alice", `{"coin_symbol":`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	errCases := []struct {
		name   string
		err    error
		status int
	}{
		{"Invalid", fmt.Errorf("%w: quantity must be greater than 0", portfolio.ErrInvalidTrade), http.StatusBadRequest},
		{"UnknownSymbol", fmt.Errorf("%w: ZZZ", portfolio.ErrUnknownSymbol), http.StatusBadRequest},
		{"Provider", fmt.Errorf("%w: connection refused", portfolio.ErrProvider), http.StatusInternalServerError},
		{"Store", errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tc := range errCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("CreateTrade", "alice", mock.Anything).Return(nil, tc.err)
			h := setupServer(svc, pinger{}, pinger{})

			rec := do(h, http.MethodPost, "/trades", "alice", `{"coin_symbol":"ZZZ","quantity":1,"avg_buy_price":1}`)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.err.Error(), decodeDetail(t, rec))
		})
	}
}

func TestAnalysis(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Analyze", "alice").Return(&portfolio.Analysis{
			Totals: valuation.Totals{TotalValue: 30000, TotalPnL: 10000, TotalInvestment: 20000, TotalPercentChange: 50},
			Trades: []portfolio.TradeAnalysis{{
				Trade:    models.Trade{CoinSymbol: "BTC"},
				Position: valuation.Value(1, 20000, 30000),
			}},
		}, nil)
		h := setupServer(svc, pinger{}, pinger{})

		rec := do(h, http.MethodGet, "/portfolio/analysis", "alice", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{
			"total_portfolio_value": 30000,
			"total_profit_loss": 10000,
			"total_percent_change": 50,
			"trades_analysis": [{
				"coin_symbol": "BTC",
				"quantity": 1,
				"avg_buy_price": 20000,
				"current_price": 30000,
				"unrealized_pnl": 10000,
				"percent_change": 50
			}]
		}`, rec.Body.String())
	})

	t.Run("NoTrades", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Analyze", "bob").Return(nil, portfolio.ErrNoTrades)
		h := setupServer(svc, pinger{}, pinger{})

		rec := do(h, http.MethodGet, "/portfolio/analysis", "bob", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "no trades found for this user", decodeDetail(t, rec))
	})

	t.Run("StoreFailure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Analyze", "bob").Return(nil, errors.New("an error occurred while fetching trades: boom"))
		h := setupServer(svc, pinger{}, pinger{})

		rec := do(h, http.MethodGet, "/portfolio/analysis", "bob", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("UnencodableResult", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Analyze", "alice").Return(&portfolio.Analysis{
			Totals: valuation.Totals{TotalValue: math.Inf(1)},
		}, nil)
		core, logs := observer.New(zapcore.ErrorLevel)
		cfg := &config.Server{OwnerHeader: "User-ID", CORSOrigins: []string{"*"}}
		h := NewServer(cfg, svc, pinger{}, pinger{}, zap.New(core)).Handler()

		rec := do(h, http.MethodGet, "/portfolio/analysis", "alice", "")

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "failed to encode response", decodeDetail(t, rec))
		assert.Equal(t, 1, logs.FilterMessage("Failed to encode response").Len())
	})

	t.Run("MissingOwner", func(t *testing.T) {
		h := setupServer(new(MockService), pinger{}, pinger{})

		rec := do(h, http.MethodGet, "/portfolio/analysis", "", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListTrades(t *testing.T) {
	svc := new(MockService)
	svc.On("ListTrades", "alice").Return([]models.Trade{{ID: 1, UserID: "alice", CoinSymbol: "ETH", Quantity: 2}}, nil)
	h := setupServer(svc, pinger{}, pinger{})

	rec := do(h, http.MethodGet, "/trades", "alice", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var trades []models.Trade
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trades))
	require.Len(t, trades, 1)
	assert.Equal(t, "ETH", trades[0].CoinSymbol)
}

func TestHealth(t *testing.T) {
	t.Run("Healthy", func(t *testing.T) {
		rec := do(setupServer(new(MockService), pinger{}, pinger{}), http.MethodGet, "/health", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("ProviderDown", func(t *testing.T) {
		rec := do(setupServer(new(MockService), pinger{}, pinger{err: errors.New("down")}), http.MethodGet, "/health", "", "")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"price_provider":"unreachable"`)
	})

	t.Run("DatabaseDown", func(t *testing.T) {
		rec := do(setupServer(new(MockService), pinger{err: errors.New("gone")}, pinger{}), http.MethodGet, "/health", "", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Contains(t, rec.Body.String(), `"database":"disconnected"`)
	})
}

func TestCORS(t *testing.T) {
	h := setupServer(new(MockService), pinger{}, pinger{})

	req := httptest.NewRequest(http.MethodOptions, "/trades", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}
