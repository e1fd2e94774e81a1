// Package entity defines the domain models for the stocks feature.
package entity

import (
	"strings"
	"time"
)

// Stock is one tracked security together with its valuation figures.
// Every numeric field except ID is optional; nil means "not known".
type Stock struct {
	ID               int64    // Assigned by the store, never reused
	Symbol           string   // Ticker, always upper case (e.g., "AAPL")
	Name             *string  // Company name
	CurrentPrice     *float64 // Last traded price
	EPS              *float64 // Earnings per share (trailing twelve months)
	PERatio          *float64 // CurrentPrice / EPS
	Growth5yPercent  *float64 // Assumed yearly earnings growth, in percent (8 = 8%)
	EPSIn5y          *float64 // Projected EPS after five years
	TargetPERatio    *float64 // P/E applied to the projected EPS
	PriceIn5y        *float64 // EPSIn5y * TargetPERatio
	FairValue        *float64 // Discounted, safety-margined fair value
	PriceDiff        *float64 // FairValue - CurrentPrice
	PotentialPercent *float64 // Upside (positive) or downside (negative) in percent
	Comment          *string  // Free-form personal note
	LastUpdated      time.Time
}

// StockPatch carries a partial update. Nil fields are left untouched.
type StockPatch struct {
	Symbol           *string
	Name             *string
	CurrentPrice     *float64
	EPS              *float64
	PERatio          *float64
	Growth5yPercent  *float64
	EPSIn5y          *float64
	TargetPERatio    *float64
	PriceIn5y        *float64
	FairValue        *float64
	PriceDiff        *float64
	PotentialPercent *float64
	Comment          *string

	// ClearPERatio stores NULL in PERatio when PERatio is nil (EPS became zero).
	ClearPERatio bool
}

// IsEmpty reports whether the patch supplies no field at all.
func (p StockPatch) IsEmpty() bool {
	return p == StockPatch{}
}

// MarketData is the normalized result of a market data lookup.
type MarketData struct {
	Symbol       string
	Name         string
	CurrentPrice float64
	EPS          float64
}

// NormalizeSymbol trims surrounding whitespace and upper-cases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
