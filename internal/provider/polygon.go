package provider

import (
	"context"

	"github.com/Matte762/polygon-helper/internal/model"
	"github.com/Matte762/polygon-helper/internal/provider/polygon"
)

// PolygonProvider is a SeriesProvider backed by the Polygon API.
// It embeds *polygon.Client so the single pooled transport is shared by every call.
type PolygonProvider struct {
	*polygon.Client
}

// NewPolygonProvider wraps client.
func NewPolygonProvider(client *polygon.Client) *PolygonProvider {
	return &PolygonProvider{Client: client}
}

// GetName returns provider name
func (p *PolygonProvider) GetName() string {
	return "Polygon"
}

// PriceSeries fetches the full, paginated series for req.
func (p *PolygonProvider) PriceSeries(ctx context.Context, req polygon.SeriesRequest) (*model.Series, error) {
	return polygon.GetPriceSeries(ctx, p.Client, req)
}
