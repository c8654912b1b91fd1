package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	scanmetrics "Radon/internal/service/metrics"
	"Radon/internal/usecase"
	pkgch "Radon/pkg/clickhouse"
	"Radon/pkg/config"
	xhttp "Radon/pkg/http"
	pkgkafka "Radon/pkg/kafka"
	applogger "Radon/pkg/logger"
	"Radon/pkg/queue"

	domrepo "Radon/internal/domain/repository"
)

// App encapsulates the entire application lifecycle.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	collector   *usecase.QuoteCollector
	consumer    *pkgkafka.Consumer
	kh          pkgkafka.MessageHandler
	chClient    *pkgch.Client
	jobs        *queue.RedisQueue
	pub         domrepo.Publisher
	scheduler   *usecase.ScanScheduler
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.QuoteCollector,
	consumer *pkgkafka.Consumer,
	kh pkgkafka.MessageHandler,
	chClient *pkgch.Client,
	jobs *queue.RedisQueue,
	pub domrepo.Publisher,
	scheduler *usecase.ScanScheduler,
) *App {
	return &App{
		cfg:       cfg,
		log:       log,
		collector: collector,
		consumer:  consumer,
		kh:        kh,
		chClient:  chClient,
		jobs:      jobs,
		pub:       pub,
		scheduler: scheduler,
	}
}

// SetHTTPHandler allows DI to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := a.log
	scanmetrics.Register()

	a.httpServer = xhttp.NewServer(a.httpHandler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Start the scan queue workers
	if a.jobs != nil {
		if err := a.jobs.Start(); err != nil {
			l.Error("queue start error", applogger.Error(err))
			return err
		}
		a.jobs.StartRetryProcessor()
		l.Info("scan queue started", applogger.Int("workers", a.cfg.Queue.Workers))
	}

	// Periodic basket scans
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Start quote collector when the live stream is enabled
	if a.cfg.Stream.Enabled && a.collector != nil {
		go func() {
			if err := a.collector.Start(ctx); err != nil {
				l.Error("collector error", applogger.Error(err))
			}
		}()
		l.Info("quote collector started", applogger.Strings("symbols", a.cfg.Stream.Symbols))
	}

	// Start Kafka consumer if configured
	if a.consumer != nil && a.kh != nil {
		a.consumer.RegisterHandler(a.kh)
		go func() {
			if err := a.consumer.Start(); err != nil {
				l.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		l.Info("kafka consumer started", applogger.String("topic", a.kh.Topic()))
	}

	// Start HTTP server
	if err := a.httpServer.Start(); err != nil {
		l.Error("http server start error", applogger.Error(err))
		return err
	}
	l.Info("http server started", applogger.Int("port", a.cfg.Server.Port))

	// Wait for interrupt
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	l.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown gracefully stops all services.
func (a *App) shutdown(ctx context.Context) error {
	l := a.log

	// Stop scheduling new scans first
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Stop collector (pipeline + stream)
	if a.collector != nil {
		if err := a.collector.Shutdown(ctx); err != nil {
			l.Warn("collector stop error", applogger.Error(err))
		}
	}

	// Shutdown HTTP server
	shutdownCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		l.Error("http shutdown error", applogger.Error(err))
	}

	// Flush pending aggregated error logs, then drain queue workers
	l.RemoveCollector()
	if a.jobs != nil {
		if err := a.jobs.Stop(shutdownCtx); err != nil {
			l.Warn("queue stop error", applogger.Error(err))
		}
	}

	// Stop consumer
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			l.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	// Close Kafka producer behind the signal publisher
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			l.Warn("publisher close error", applogger.Error(err))
		}
	}

	// Close infrastructure clients
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			l.Warn("clickhouse close error", applogger.Error(err))
		}
	}

	l.Info("shutdown complete")
	return nil
}
