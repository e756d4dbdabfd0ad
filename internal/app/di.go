package app

import (
	"fmt"
	"log/slog"

	"github.com/google/wire"

	"github.com/Matte762/polygon-helper/internal/provider"
	"github.com/Matte762/polygon-helper/internal/provider/polygon"
	"github.com/Matte762/polygon-helper/internal/saver"
)

// App holds application dependencies built by Wire.
type App struct {
	Config *Config
	DP     provider.SeriesProvider
	Saver  saver.SeriesSaver
}

// ProviderSet wires Config into an App.
var ProviderSet = wire.NewSet(
	ProvideClient,
	ProvidePolygonProvider,
	ProvideSeriesSaver,
	wire.Bind(new(provider.SeriesProvider), new(*provider.PolygonProvider)),
	wire.Struct(new(App), "*"),
)

// ProvideClient creates the Polygon transport client from config (for Wire).
// Fails with polygon.ErrAuthentication when no key is configured.
func ProvideClient(cfg *Config) (*polygon.Client, error) {
	return polygon.NewClient(cfg.PolygonAPIKey,
		polygon.WithBaseURL(cfg.BaseURL),
		polygon.WithTimeout(cfg.Timeout),
		polygon.WithLogger(slog.Default()),
	)
}

// ProvidePolygonProvider wraps the client (for Wire).
// Caller must call Close when shutting down.
func ProvidePolygonProvider(client *polygon.Client) *provider.PolygonProvider {
	return provider.NewPolygonProvider(client)
}

// ProvideSeriesSaver creates SeriesSaver from config (for Wire).
// Returns error if SaveFormat is not supported.
func ProvideSeriesSaver(cfg *Config) (saver.SeriesSaver, error) {
	s := saver.NewSeriesSaver(cfg.SaveFormat)
	if s == nil {
		return nil, fmt.Errorf("unsupported SAVE_FORMAT %q (use: csv, parquet, json)", cfg.SaveFormat)
	}
	return s, nil
}
