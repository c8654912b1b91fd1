//go:build wireinject
// +build wireinject

package di

import (
	"Radon/pkg/config"
	"Radon/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		// Foundations
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideRedisClient,
		ProvideBytesCache,

		// Repositories
		ProvideBarStore,
		ProvideSignalStore,
		ProvideSignalPublisher,
		ProvideBarSource,

		// Scan engine and pipeline
		ProvideSignalComputer,
		ProvidePipeline,
		ProvideBasketScanner,
		ProvideErrorLogSink,
		ProvideScanQueue,
		ProvideScanScheduler,

		// Live stream
		ProvideMarketStream,
		ProvideQuoteCollector,

		// Consumers and HTTP surface
		ProvideKafkaSignalsHandler,
		ProvideHTTPHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
