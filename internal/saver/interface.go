package saver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Matte762/polygon-helper/internal/model"
)

// SeriesSaver persists one normalized series to a file.
// The CLI injects the implementation chosen by SAVE_FORMAT.
type SeriesSaver interface {
	Save(series *model.Series, path string) error
	Extension() string
}

// NewSeriesSaver creates implementation by format (csv, parquet, json).
// Returns nil if format not supported.
func NewSeriesSaver(format string) SeriesSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "parquet":
		return ParquetSaver{}
	case "json":
		return JSONSaver{}
	default:
		return nil
	}
}

// SeriesPath returns {dir}/{TICKER}/{TICKER}_{start}_to_{end}.{ext}.
func SeriesPath(dir, ticker, start, end, ext string) string {
	name := fmt.Sprintf("%s_%s_to_%s.%s", ticker, start, end, ext)
	return filepath.Join(dir, ticker, name)
}
