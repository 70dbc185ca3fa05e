// Package valuation computes unrealized profit and loss for held positions.
//
// Two per-position formulas exist. Value is used whenever a live price was
// obtained and derives the percent change from totals:
//
//	pnl / (quantity * avgBuyPrice) * 100
//
// ValueFromStored is used when the live price could not be obtained and the
// last persisted price is reused. It derives the percent change per unit:
//
//	(storedPrice - avgBuyPrice) / avgBuyPrice * 100
//
// Both reduce to the same number for a single position. They are kept as
// separate code paths so that stored-price positions report exactly what
// clients have always seen; merging them needs a product decision.
package valuation

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Position is the valuation of one trade at one price.
type Position struct {
	Quantity          float64
	AvgBuyPrice       float64
	CurrentPrice      float64
	InitialInvestment float64
	CurrentValue      float64
	UnrealizedPnL     float64
	PercentChange     float64
	// Fallback is set when the position was valued at its stored price.
	Fallback bool
}

// Finite reports whether every figure of the position is a finite number.
// Extreme quantities or prices overflow float64 once converted back from
// decimal, and such positions cannot be stored, summed or encoded.
func (p Position) Finite() bool {
	for _, f := range []float64{
		p.Quantity, p.AvgBuyPrice, p.CurrentPrice,
		p.InitialInvestment, p.CurrentValue, p.UnrealizedPnL, p.PercentChange,
	} {
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return false
		}
	}
	return true
}

// Totals is the aggregate valuation of a portfolio.
type Totals struct {
	TotalValue         float64
	TotalPnL           float64
	TotalInvestment    float64
	TotalPercentChange float64
}

// Value values quantity units bought at avgBuyPrice at a live unit price.
func Value(quantity, avgBuyPrice, price float64) Position {
	q := decimal.NewFromFloat(quantity)
	b := decimal.NewFromFloat(avgBuyPrice)
	p := decimal.NewFromFloat(price)

	initial := q.Mul(b)
	current := q.Mul(p)
	pnl := current.Sub(initial)

	pct := decimal.Zero
	if initial.IsPositive() {
		pct = pnl.Div(initial).Mul(hundred)
	}

	return Position{
		Quantity:          quantity,
		AvgBuyPrice:       avgBuyPrice,
		CurrentPrice:      price,
		InitialInvestment: initial.InexactFloat64(),
		CurrentValue:      current.InexactFloat64(),
		UnrealizedPnL:     pnl.InexactFloat64(),
		PercentChange:     pct.InexactFloat64(),
	}
}

// ValueFromStored values a position at its last persisted price.
func ValueFromStored(quantity, avgBuyPrice, storedPrice float64) Position {
	q := decimal.NewFromFloat(quantity)
	b := decimal.NewFromFloat(avgBuyPrice)
	p := decimal.NewFromFloat(storedPrice)

	delta := p.Sub(b)
	pct := decimal.Zero
	if !b.IsZero() {
		pct = delta.Div(b).Mul(hundred)
	}

	return Position{
		Quantity:          quantity,
		AvgBuyPrice:       avgBuyPrice,
		CurrentPrice:      storedPrice,
		InitialInvestment: q.Mul(b).InexactFloat64(),
		CurrentValue:      q.Mul(p).InexactFloat64(),
		UnrealizedPnL:     delta.Mul(q).InexactFloat64(),
		PercentChange:     pct.InexactFloat64(),
		Fallback:          true,
	}
}

// Aggregate sums positions. The total percent change is always derived from
// the summed P&L over the summed investment. Positions that are not Finite
// are left out of the totals.
func Aggregate(positions []Position) Totals {
	value, pnl, invested := decimal.Zero, decimal.Zero, decimal.Zero
	for _, pos := range positions {
		if !pos.Finite() {
			continue
		}
		q := decimal.NewFromFloat(pos.Quantity)
		value = value.Add(decimal.NewFromFloat(pos.CurrentValue))
		pnl = pnl.Add(decimal.NewFromFloat(pos.UnrealizedPnL))
		invested = invested.Add(q.Mul(decimal.NewFromFloat(pos.AvgBuyPrice)))
	}

	pct := decimal.Zero
	if invested.IsPositive() {
		pct = pnl.Div(invested).Mul(hundred)
	}

	return Totals{
		TotalValue:         value.InexactFloat64(),
		TotalPnL:           pnl.InexactFloat64(),
		TotalInvestment:    invested.InexactFloat64(),
		TotalPercentChange: pct.InexactFloat64(),
	}
}
