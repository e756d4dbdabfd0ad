package saver

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Matte762/polygon-helper/internal/model"
)

// TimestampLayout is how CSV rows print their timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// CSVSaver writes a header (timestamp + model.Columns) and one line per bar.
// Null values are written as empty fields.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(series *model.Series, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)

	columns := series.Columns()
	if err := w.Write(append([]string{"timestamp"}, columns...)); err != nil {
		return err
	}
	record := make([]string, len(columns)+1)
	for i := 0; i < series.Len(); i++ {
		record[0] = series.Row(i).Timestamp.Format(TimestampLayout)
		for j, col := range columns {
			record[j+1] = FormatValue(series.Value(i, col))
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// FormatValue renders a series value; nil becomes the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case time.Time:
		return x.Format(TimestampLayout)
	default:
		return fmt.Sprint(x)
	}
}
