//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/Matte762/polygon-helper/internal/app"
)

// InitializeApp builds App (client, provider, saver) from cfg via Wire.
// Caller must call a.DP.Close() when done.
func InitializeApp(cfg *app.Config) (*app.App, error) {
	wire.Build(app.ProviderSet)
	return nil, nil
}
