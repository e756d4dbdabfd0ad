package model

import (
	"slices"
)

// Series is an immutable, timestamp-ascending table of bars with the fixed Columns.
// It is safe for concurrent readers.
type Series struct {
	ticker string
	rows   []Bar
}

// NewSeries copies bars, sorts them by timestamp (stable, so equal timestamps keep
// fetch order) and returns the resulting Series. A nil or empty input yields an
// empty Series that still reports the full column set.
func NewSeries(ticker string, bars []Bar) *Series {
	rows := make([]Bar, len(bars))
	copy(rows, bars)
	slices.SortStableFunc(rows, func(a, b Bar) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return &Series{ticker: ticker, rows: rows}
}

// Ticker returns the upper-cased ticker the series was fetched for.
func (s *Series) Ticker() string { return s.ticker }

// Len returns the number of rows.
func (s *Series) Len() int { return len(s.rows) }

// Columns returns the column names in output order.
func (s *Series) Columns() []string { return slices.Clone(Columns) }

// Row returns the i-th row. It panics when i is out of range, like slice indexing.
func (s *Series) Row(i int) Bar { return s.rows[i] }

// Rows returns a copy of all rows.
func (s *Series) Rows() []Bar { return slices.Clone(s.rows) }

// Head returns a copy of the first n rows (fewer when the series is shorter).
func (s *Series) Head(n int) []Bar {
	if n > len(s.rows) {
		n = len(s.rows)
	}
	if n < 0 {
		n = 0
	}
	return slices.Clone(s.rows[:n])
}

// Value returns the value at row i for column, nil when null.
func (s *Series) Value(i int, column string) any {
	return s.rows[i].Value(column)
}
