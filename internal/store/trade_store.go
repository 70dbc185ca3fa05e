package store

import (
	"context"
	"fmt"

	"crypto-tracker-go/internal/models"
	"gorm.io/gorm"
)

// TradeStore persists trades. Each call opens its own context-scoped session,
// so a request never holds a connection longer than one operation.
type TradeStore struct {
	db *gorm.DB
}

func NewTradeStore(db *gorm.DB) *TradeStore {
	return &TradeStore{db: db}
}

// Insert stores a new trade and returns its id.
func (s *TradeStore) Insert(ctx context.Context, trade *models.Trade) (uint, error) {
	if err := s.db.WithContext(ctx).Create(trade).Error; err != nil {
		return 0, fmt.Errorf("failed to insert trade: %w", err)
	}
	return trade.ID, nil
}

// FindAllByOwner returns the owner's trades in creation order.
func (s *TradeStore) FindAllByOwner(ctx context.Context, owner string) ([]models.Trade, error) {
	var trades []models.Trade
	if err := s.db.WithContext(ctx).Where("user_id = ?", owner).Order("id asc").Find(&trades).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch trades for %s: %w", owner, err)
	}
	return trades, nil
}

// UpdateValuationFields writes the price and derived columns of every trade
// in one transaction. Other columns are never touched.
func (s *TradeStore) UpdateValuationFields(ctx context.Context, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range trades {
			err := tx.Model(&models.Trade{}).
				Where("id = ?", t.ID).
				Updates(map[string]interface{}{
					"current_price":  t.CurrentPrice,
					"unrealized_pnl": t.UnrealizedPnL,
					"percent_change": t.PercentChange,
				}).Error
			if err != nil {
				return fmt.Errorf("trade %d: %w", t.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update trade values: %w", err)
	}
	return nil
}

// Ping checks the underlying connection.
func (s *TradeStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
