package models

import "time"

// Trade is a recorded position of one owner in one coin, together with the
// valuation observed the last time it was priced.
type Trade struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        string    `gorm:"index;not null" json:"user_id"`
	CoinSymbol    string    `gorm:"index;not null" json:"coin_symbol"`
	Quantity      float64   `gorm:"not null" json:"quantity"`
	AvgBuyPrice   float64   `gorm:"not null" json:"avg_buy_price"`
	CurrentPrice  float64   `gorm:"not null" json:"current_price"`
	UnrealizedPnL float64   `gorm:"column:unrealized_pnl;not null" json:"unrealized_pnl"`
	PercentChange float64   `gorm:"not null" json:"percent_change"`
	CreatedAt     time.Time `json:"created_at"`
}

// TableName keeps the table name stable across drivers.
func (Trade) TableName() string {
	return "trades"
}
