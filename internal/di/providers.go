package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"Radon/internal/domain/repository"
	domsvc "Radon/internal/domain/service"
	"Radon/internal/handler/api"
	mid "Radon/internal/middleware"
	internalrepo "Radon/internal/repository"
	icache "Radon/internal/service/cache"
	"Radon/internal/service/marketdata"
	"Radon/internal/service/marketstream"
	"Radon/internal/service/ratelimit"
	"Radon/internal/services/engine"
	"Radon/internal/services/indicators"
	"Radon/internal/signal"
	"Radon/internal/usecase"
	pkgcache "Radon/pkg/cache"
	pkgch "Radon/pkg/clickhouse"
	"Radon/pkg/config"
	pkgkafka "Radon/pkg/kafka"
	applogger "Radon/pkg/logger"
	"Radon/pkg/metrics"
	"Radon/pkg/queue"
	"Radon/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := &applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	}
	if lc.Level == "" {
		lc.Level = "info"
	}
	if lc.Format == "" {
		lc.Format = "console"
	}
	if lc.Output == "" {
		lc.Output = "stdout"
	}
	return applogger.New(lc)
}

// ProvideClickHouseClient creates a ClickHouse client and initializes the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", cfg.ClickHouse.Database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			ts DateTime,
			symbol String,
			interval String,
			open Float64,
			high Float64,
			low Float64,
			close Float64,
			volume Float64
		) ENGINE=ReplacingMergeTree ORDER BY (symbol, interval, ts)`, cfg.ClickHouse.BarsTable),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id String,
			symbol String,
			interval String,
			ts DateTime,
			label String,
			profile String,
			price Float64,
			osc Float64,
			rsi Float64,
			macd Float64
		) ENGINE=MergeTree ORDER BY (symbol, interval, ts)`, cfg.ClickHouse.SignalsTable),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisClient creates the shared Redis client.
func ProvideRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

// ProvideBytesCache picks the response/bar cache backend. With Redis
// configured and reachable it layers an in-process L1 in front of it; the
// L1 TTL is capped at the bar cache TTL so local copies never outlive the
// shared entries. Otherwise it degrades to an in-process TTL cache.
func ProvideBytesCache(cfg *config.Config) icache.BytesCache {
	if cfg.Redis.Addr == "" {
		return icache.NewTTLCache()
	}
	host, port := splitHostPort(cfg.Redis.Addr, 6379)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Redis.Password),
		pkgcache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return icache.NewTTLCache()
	}
	memTTL := cfg.MarketData.CacheTTL
	if memTTL <= 0 {
		memTTL = time.Minute
	}
	layered := pkgcache.NewLayeredCache(rc,
		pkgcache.WithLayeredMemorySize(512),
		pkgcache.WithLayeredMemoryTTL(memTTL),
	)
	return icache.NewServiceCache(layered)
}

func splitHostPort(addr string, defaultPort int) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return addr, defaultPort
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return host, defaultPort
	}
	return host, port
}

// ProvideBarStore creates the ClickHouse bar store.
func ProvideBarStore(chClient *pkgch.Client, cfg *config.Config) repository.BarStore {
	return internalrepo.NewClickHouseBarStore(chClient.DB(), cfg.ClickHouse.BarsTable)
}

// ProvideSignalStore creates the ClickHouse signal store.
func ProvideSignalStore(chClient *pkgch.Client, cfg *config.Config, lgr *applogger.Logger) repository.SignalStore {
	store := internalrepo.NewCHSignalStore(chClient, cfg.ClickHouse.SignalsTable)
	store.SetLogger(lgr)
	return store
}

// ProvideSignalPublisher creates the Kafka signal publisher.
func ProvideSignalPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaSignalPublisher(producer, cfg.Kafka.Topic)
}

// ProvideBarSource creates the chart API client wrapped in a read-through
// cache so repeated scans of the same symbol do not hammer the upstream.
func ProvideBarSource(cfg *config.Config, store icache.BytesCache, lgr *applogger.Logger) repository.BarSource {
	capacity := cfg.MarketData.RateCapacity
	if capacity <= 0 {
		capacity = 10
	}
	refill := cfg.MarketData.RateRefill
	if refill <= 0 {
		refill = 2
	}
	client := marketdata.NewChartClient(
		cfg.MarketData.BaseURL,
		cfg.MarketData.Token,
		cfg.MarketData.Timeout,
		marketdata.WithLimiter(ratelimit.New(capacity, refill)),
		marketdata.WithSuffix(cfg.MarketData.Suffix),
	)
	ttl := cfg.MarketData.CacheTTL
	if ttl <= 0 {
		ttl = time.Minute
	}
	return marketdata.NewCachedSource(client, store, ttl, lgr)
}

// ProvideSignalComputer builds the scan engine from the configured profiles.
func ProvideSignalComputer(cfg *config.Config) domsvc.SignalComputer {
	profiles := make(map[string]signal.Config, len(cfg.Profiles))
	for name, p := range cfg.Profiles {
		profiles[name] = signal.Config{
			LeftBars:  p.LeftBars,
			RightBars: p.RightBars,
			Penalty:   p.Penalty,
			Model:     p.Model,
			Window:    p.Window,
		}
	}
	return engine.New(profiles, indicators.NewConfirmer())
}

// ProvidePipeline creates the per-symbol scan pipeline.
func ProvidePipeline(
	source repository.BarSource,
	barStore repository.BarStore,
	sigStore repository.SignalStore,
	pub repository.Publisher,
	computer domsvc.SignalComputer,
	m repository.Metrics,
	lgr *applogger.Logger,
	cfg *config.Config,
) *usecase.SignalPipeline {
	return usecase.NewSignalPipeline(usecase.PipelineParams{
		Source:   source,
		BarStore: barStore,
		SigStore: sigStore,
		Pub:      pub,
		Computer: computer,
		Metrics:  m,
		Log:      lgr,
		BarCount: cfg.Scan.BarCount,
	})
}

// ProvideBasketScanner creates the queue job that runs basket scans.
func ProvideBasketScanner(pipeline *usecase.SignalPipeline, lgr *applogger.Logger) *usecase.BasketScanner {
	return usecase.NewBasketScanner(pipeline, lgr)
}

// ProvideScanQueue creates the Redis-backed scan queue in producer-consumer
// mode and registers the basket scanner and error-log sink jobs. The logger's
// aggregating collector flushes through the queue so repeated errors land as
// one batched message instead of a log flood.
func ProvideScanQueue(
	cfg *config.Config,
	lgr *applogger.Logger,
	client *redis.Client,
	scanner *usecase.BasketScanner,
	sink *usecase.ErrorLogSink,
) *queue.RedisQueue {
	qc := &queue.QueueConfig{
		Workers:    cfg.Queue.Workers,
		QueueSize:  cfg.Queue.QueueSize,
		RetryLimit: cfg.Queue.RetryLimit,
		RetryDelay: cfg.Queue.RetryDelay,
	}
	if qc.Workers <= 0 {
		qc.Workers = 4
	}
	if qc.QueueSize <= 0 {
		qc.QueueSize = 256
	}
	if qc.RetryDelay <= 0 {
		qc.RetryDelay = 5 * time.Second
	}
	q := queue.NewRedisQueue(lgr, qc, client, queue.ModeProducerConsumer, queue.WithKeyPrefix("radon:queue"))
	q.RegisterJob(scanner)
	q.RegisterJob(sink)
	lgr.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          usecase.ErrorLogMessageType,
		Publisher:      q,
	})
	return q
}

// ProvideErrorLogSink creates the queue job draining aggregated error logs.
func ProvideErrorLogSink(m repository.Metrics, lgr *applogger.Logger) *usecase.ErrorLogSink {
	return usecase.NewErrorLogSink(m, lgr)
}

// ProvideScanScheduler creates the periodic basket scan trigger.
func ProvideScanScheduler(cfg *config.Config, q *queue.RedisQueue, lgr *applogger.Logger) *usecase.ScanScheduler {
	return usecase.NewScanScheduler(q, cfg.Stream.Symbols, cfg.Scan.Every, cfg.Scan.Interval, cfg.Scan.Profile, lgr)
}

// ProvideMarketStream creates the WebSocket quote stream.
func ProvideMarketStream(cfg *config.Config, lgr *applogger.Logger) repository.MarketStream {
	return marketstream.New(
		cfg.Stream.Token,
		cfg.Stream.WebSocketURL,
		cfg.Stream.Symbols,
		cfg.Stream.ReconnectDelay,
		cfg.Stream.PingInterval,
		lgr,
	)
}

// ProvideQuoteCollector wires the stream through the quote pipeline into the
// rescan trigger, so live ticks debounce into queued scans.
func ProvideQuoteCollector(
	stream repository.MarketStream,
	q *queue.RedisQueue,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.QuoteCollector {
	capacity := cfg.Scan.RescanCapacity
	if capacity <= 0 {
		capacity = 1
	}
	refill := cfg.Scan.RescanRefill
	if refill <= 0 {
		refill = 1.0 / 60
	}
	trigger := usecase.NewRescanTrigger(q, ratelimit.New(capacity, refill), cfg.Scan.Interval, cfg.Scan.Profile, m)

	opts := []mid.PipelineOption{}
	if cfg.Stream.MaxRPS > 0 {
		opts = append(opts, mid.WithMaxRPS(cfg.Stream.MaxRPS))
	}
	if cfg.Stream.BufferSize > 0 {
		opts = append(opts, mid.WithBufferSize(cfg.Stream.BufferSize))
	}
	pipe := mid.NewQuotePipeline(trigger, m, opts...)
	return usecase.NewQuoteCollector(stream, trigger, m, pipe)
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Consumer.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaSignalsHandler registers the handler for the signals topic.
func ProvideKafkaSignalsHandler(store repository.SignalStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaSignalsHandler {
	return usecase.NewKafkaSignalsHandler(cfg.Kafka.Topic, store, m)
}

// ProvideHTTPHandler creates the Echo handler with all read/write endpoints.
func ProvideHTTPHandler(
	lgr *applogger.Logger,
	sigStore repository.SignalStore,
	source repository.BarSource,
	computer domsvc.SignalComputer,
	q *queue.RedisQueue,
	respCache icache.BytesCache,
) *api.SignalsEchoHandler {
	h := api.NewSignalsEchoHandler(
		lgr,
		usecase.NewSignalsUseCase(sigStore),
		usecase.NewBarsUseCase(source, computer),
		q,
	)
	h.SetCache(respCache)
	h.SetOverview(usecase.NewOverviewUseCase(source, sigStore))
	return h
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	lgr *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSignalsHandler,
	chClient *pkgch.Client,
	q *queue.RedisQueue,
	pub repository.Publisher,
	scheduler *usecase.ScanScheduler,
	handler *api.SignalsEchoHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, lgr, collector, consumer, kh, chClient, q, pub, scheduler)
	app.SetHTTPHandler(handler)
	return app
}
