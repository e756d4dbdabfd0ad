package saver

import (
	"encoding/json"
	"os"

	"github.com/Matte762/polygon-helper/internal/model"
)

// JSONSaver writes the series as an indented JSON array; null columns stay null.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(series *model.Series, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	rows := series.Rows()
	if rows == nil {
		rows = []model.Bar{}
	}
	return enc.Encode(rows)
}
