package model

import "time"

// TrackedStock is one user's position (or plain watch) on a symbol.
// Quantity and PurchasePrice are zero when the user only watches the symbol.
type TrackedStock struct {
	UserID        string
	Symbol        string
	Quantity      float64
	PurchasePrice float64
	CreatedAt     time.Time
}

type AlertDirection string

const (
	AlertAbove AlertDirection = "above"
	AlertBelow AlertDirection = "below"
)

// StockAlert fires once when the symbol crosses Target in Direction,
// then is deactivated.
type StockAlert struct {
	ID        int64
	UserID    string
	Symbol    string
	Direction AlertDirection
	Target    float64
	Active    bool
	CreatedAt time.Time
}

// SymbolMatch is a ticker search hit.
type SymbolMatch struct {
	Symbol   string
	Name     string
	Exchange string
}

// Quote is a normalized stock quote from whichever provider answered.
type Quote struct {
	Symbol        string
	Price         float64
	Change        float64
	ChangePercent float64
	Volume        int64
	Currency      string
	Source        string // "alphavantage" | "yahoo"
	AsOf          time.Time
}
