package polygon

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/guregu/null/v6"

	"github.com/Matte762/polygon-helper/internal/model"
)

// BarRaw is one aggregate record as sent by the API. Optional fields stay nil when absent.
type BarRaw struct {
	Timestamp    int64          `json:"t"` // Unix timestamp in milliseconds
	Open         *float64       `json:"o"`
	High         *float64       `json:"h"`
	Low          *float64       `json:"l"`
	Close        *float64       `json:"c"`
	Volume       *float64       `json:"v"`
	VWAP         *float64       `json:"vw"`
	Transactions *FlexibleInt64 `json:"n"`
}

// ToBar converts BarRaw to model.Bar.
func (br BarRaw) ToBar() model.Bar {
	b := model.Bar{
		Timestamp: time.UnixMilli(br.Timestamp).UTC(),
		Open:      null.FloatFromPtr(br.Open),
		High:      null.FloatFromPtr(br.High),
		Low:       null.FloatFromPtr(br.Low),
		Close:     null.FloatFromPtr(br.Close),
		Volume:    null.FloatFromPtr(br.Volume),
		VWAP:      null.FloatFromPtr(br.VWAP),
	}
	if br.Transactions != nil {
		b.Transactions = null.IntFrom(br.Transactions.Int64())
	}
	return b
}

// AggregatesResponse is one page of the aggregates endpoint. Unknown fields are ignored.
type AggregatesResponse struct {
	Ticker       string   `json:"ticker"`
	QueryCount   int      `json:"queryCount"`
	ResultsCount int      `json:"resultsCount"`
	Adjusted     bool     `json:"adjusted"`
	Results      []BarRaw `json:"results"`
	Status       string   `json:"status"`
	RequestID    string   `json:"request_id"`
	NextURL      string   `json:"next_url,omitempty"`
}

// FlexibleInt64 parses an int, a float (scientific notation) or a numeric string to int64.
type FlexibleInt64 int64

// UnmarshalJSON parses int, float or string.
func (f *FlexibleInt64) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		val, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return err
		}
		*f = FlexibleInt64(int64(val))
		return nil
	}

	var intVal int64
	if err := json.Unmarshal(data, &intVal); err == nil {
		*f = FlexibleInt64(intVal)
		return nil
	}

	var floatVal float64
	if err := json.Unmarshal(data, &floatVal); err == nil {
		*f = FlexibleInt64(int64(floatVal))
		return nil
	}

	return fmt.Errorf("cannot parse as int64: %s", string(data))
}

// Int64 returns int64 value
func (f FlexibleInt64) Int64() int64 {
	return int64(f)
}
