package model

import (
	"time"

	"github.com/guregu/null/v6"
)

// Column names of a normalized series, in output order.
const (
	ColOpen         = "open"
	ColHigh         = "high"
	ColLow          = "low"
	ColClose        = "close"
	ColVolume       = "volume"
	ColVWAP         = "vwap"
	ColTransactions = "transactions"
)

// Columns is the fixed column set of every Series.
var Columns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume, ColVWAP, ColTransactions}

// Bar represents one normalized OHLCV bar keyed by its UTC timestamp.
// Fields missing from the upstream record stay null.
type Bar struct {
	Timestamp    time.Time  `json:"timestamp"`
	Open         null.Float `json:"open"`
	High         null.Float `json:"high"`
	Low          null.Float `json:"low"`
	Close        null.Float `json:"close"`
	Volume       null.Float `json:"volume"`
	VWAP         null.Float `json:"vwap"`         // Volume weighted average price
	Transactions null.Int   `json:"transactions"` // Number of transactions
}

// Value returns the column value of b, or nil when the column is null or unknown.
func (b Bar) Value(column string) any {
	switch column {
	case ColOpen:
		return floatValue(b.Open)
	case ColHigh:
		return floatValue(b.High)
	case ColLow:
		return floatValue(b.Low)
	case ColClose:
		return floatValue(b.Close)
	case ColVolume:
		return floatValue(b.Volume)
	case ColVWAP:
		return floatValue(b.VWAP)
	case ColTransactions:
		if !b.Transactions.Valid {
			return nil
		}
		return b.Transactions.Int64
	default:
		return nil
	}
}

func floatValue(f null.Float) any {
	if !f.Valid {
		return nil
	}
	return f.Float64
}
