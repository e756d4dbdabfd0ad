package saver

import (
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/Matte762/polygon-helper/internal/model"
)

// parquetRow is the on-disk schema; pointer fields become optional columns.
type parquetRow struct {
	Timestamp    time.Time `parquet:"timestamp,timestamp(millisecond)"`
	Open         *float64  `parquet:"open,optional"`
	High         *float64  `parquet:"high,optional"`
	Low          *float64  `parquet:"low,optional"`
	Close        *float64  `parquet:"close,optional"`
	Volume       *float64  `parquet:"volume,optional"`
	VWAP         *float64  `parquet:"vwap,optional"`
	Transactions *int64    `parquet:"transactions,optional"`
}

func toParquetRow(b model.Bar) parquetRow {
	return parquetRow{
		Timestamp:    b.Timestamp,
		Open:         b.Open.Ptr(),
		High:         b.High.Ptr(),
		Low:          b.Low.Ptr(),
		Close:        b.Close.Ptr(),
		Volume:       b.Volume.Ptr(),
		VWAP:         b.VWAP.Ptr(),
		Transactions: b.Transactions.Ptr(),
	}
}

// ParquetSaver writes the series as a Parquet file.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(series *model.Series, path string) error {
	rows := make([]parquetRow, series.Len())
	for i := range rows {
		rows[i] = toParquetRow(series.Row(i))
	}
	return parquet.WriteFile(path, rows)
}
