package saver

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guregu/null/v6"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matte762/polygon-helper/internal/model"
)

func testSeries() *model.Series {
	return model.NewSeries("AAPL", []model.Bar{
		{
			Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
			Open:      null.FloatFrom(2),
			High:      null.FloatFrom(3),
			Low:       null.FloatFrom(1.5),
			Close:     null.FloatFrom(2.5),
			Volume:    null.FloatFrom(200),
		},
		{
			Timestamp:    time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
			Open:         null.FloatFrom(1),
			High:         null.FloatFrom(2),
			Low:          null.FloatFrom(0.5),
			Close:        null.FloatFrom(1.5),
			Volume:       null.FloatFrom(100),
			VWAP:         null.FloatFrom(1.2),
			Transactions: null.IntFrom(10),
		},
	})
}

func TestNewSeriesSaver(t *testing.T) {
	assert.IsType(t, CSVSaver{}, NewSeriesSaver("csv"))
	assert.IsType(t, JSONSaver{}, NewSeriesSaver(" JSON "))
	assert.IsType(t, ParquetSaver{}, NewSeriesSaver("parquet"))
	assert.Nil(t, NewSeriesSaver("xlsx"))
}

func TestSeriesPath(t *testing.T) {
	got := SeriesPath("data", "AAPL", "2024-01-01", "2024-01-31", "csv")
	assert.Equal(t, filepath.Join("data", "AAPL", "AAPL_2024-01-01_to_2024-01-31.csv"), got)
}

func TestCSVSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, CSVSaver{}.Save(testSeries(), path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"timestamp", "open", "high", "low", "close", "volume", "vwap", "transactions"},
		{"2024-01-02 00:00:00", "1", "2", "0.5", "1.5", "100", "1.2", "10"},
		{"2024-01-03 00:00:00", "2", "3", "1.5", "2.5", "200", "", ""},
	}, records)
}

func TestJSONSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, JSONSaver{}.Save(testSeries(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(data, &rows))

	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-02T00:00:00Z", rows[0]["timestamp"])
	assert.Equal(t, 1.2, rows[0]["vwap"])
	assert.Equal(t, 10.0, rows[0]["transactions"])
	assert.Contains(t, rows[1], "vwap")
	assert.Nil(t, rows[1]["vwap"])
	assert.Nil(t, rows[1]["transactions"])
}

func TestJSONSaverEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, JSONSaver{}.Save(model.NewSeries("AAPL", nil), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestParquetSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ParquetSaver{}.Save(testSeries(), path))

	rows, err := parquet.ReadFile[parquetRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC).UnixMilli(), rows[0].Timestamp.UnixMilli())
	require.NotNil(t, rows[0].VWAP)
	assert.Equal(t, 1.2, *rows[0].VWAP)
	require.NotNil(t, rows[0].Transactions)
	assert.Equal(t, int64(10), *rows[0].Transactions)

	assert.Equal(t, 2.5, *rows[1].Close)
	assert.Nil(t, rows[1].VWAP)
	assert.Nil(t, rows[1].Transactions)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "1.25", FormatValue(1.25))
	assert.Equal(t, "42", FormatValue(int64(42)))
	assert.Equal(t, "2024-01-02 09:30:00", FormatValue(time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)))
	assert.Equal(t, "x", FormatValue("x"))
}
