//go:build wireinject
// +build wireinject

package di

import (
	"StockCast/pkg/config"
	"StockCast/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Infrastructure
		ProvideLogger,
		ProvideMetrics,
		ProvideArtifactStore,
		ProvideTwelveData,

		// Ports
		ProvideSymbolSearcher,
		ProvideMarketData,
		ProvideRelay,

		// Pipeline
		ProvideTrainParams,
		ProvideWindows,
		ProvidePredictor,

		// Transport
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
