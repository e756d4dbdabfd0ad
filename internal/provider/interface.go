package provider

import (
	"context"

	"github.com/Matte762/polygon-helper/internal/model"
	"github.com/Matte762/polygon-helper/internal/provider/polygon"
)

// SeriesProvider is the abstraction the CLI uses to fetch price series.
// Implementations own their transport and release it in Close.
type SeriesProvider interface {
	GetName() string
	PriceSeries(ctx context.Context, req polygon.SeriesRequest) (*model.Series, error)
	Close() error
}
