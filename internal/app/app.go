// Package app initializes and runs the user directory server.
// It configures logging, storage, the event dispatcher and routing,
// and handles graceful shutdown.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/patric-chuzhbe/userdir/internal/config"
	"github.com/patric-chuzhbe/userdir/internal/db/jsondb"
	"github.com/patric-chuzhbe/userdir/internal/db/memorystorage"
	"github.com/patric-chuzhbe/userdir/internal/db/postgresdb"
	"github.com/patric-chuzhbe/userdir/internal/db/sqlitedb"
	"github.com/patric-chuzhbe/userdir/internal/db/storage"
	"github.com/patric-chuzhbe/userdir/internal/eventqueue"
	"github.com/patric-chuzhbe/userdir/internal/events"
	"github.com/patric-chuzhbe/userdir/internal/grpcserver"
	"github.com/patric-chuzhbe/userdir/internal/logger"
	"github.com/patric-chuzhbe/userdir/internal/models"
	"github.com/patric-chuzhbe/userdir/internal/router"
	"github.com/patric-chuzhbe/userdir/internal/service"
)

const shutdownTimeout = 10 * time.Second

// App holds the configuration, storage, event pipeline and HTTP handler
// of a running server.
type App struct {
	cfg            *config.Config
	db             storage.Storage
	publisher      events.Publisher
	dispatcher     *eventqueue.Dispatcher
	stopDispatcher context.CancelFunc
	httpHandler    http.Handler
	grpcHandler    *grpcserver.UsersHandler
}

// New loads the configuration and builds every component. The event
// dispatcher starts immediately.
func New() (*App, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}

	err = logger.Init(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an already loaded configuration.
func NewWithConfig(cfg *config.Config) (*App, error) {
	var err error
	app := &App{cfg: cfg}

	app.db, err = getStorageByType(cfg)
	if err != nil {
		return nil, err
	}

	app.publisher, err = getPublisher(cfg)
	if err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.dispatcher = eventqueue.New(
		app.publisher,
		cfg.ChannelCapacity,
		cfg.DelayBetweenQueueFetches,
		cfg.EventsPublishTimeout,
	)
	dispatcherRunCtx, stopDispatcher := context.WithCancel(context.Background())
	app.stopDispatcher = stopDispatcher

	app.dispatcher.Run(dispatcherRunCtx)
	app.dispatcher.ListenErrors(func(err error) {
		logger.Log.Errorw("user events were not published", "error", err)
	})

	svc := service.New(app.db, app.dispatcher)
	app.httpHandler = router.New(svc, cfg.AllowedOrigins)
	app.grpcHandler = grpcserver.NewUsersHandler(svc)

	return app, nil
}

// Handler returns the HTTP handler of the server.
func (a *App) Handler() http.Handler {
	return a.httpHandler
}

// Run serves HTTP until SIGINT or SIGTERM, then drains in-flight requests,
// flushes pending events and closes the store.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Infow("server running", "RunAddr", a.cfg.RunAddr)

	server := &http.Server{
		Addr:              a.cfg.RunAddr,
		Handler:           a.httpHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 2)
	go func() {
		serverErrCh <- server.ListenAndServe()
	}()

	grpcServer, _, err := a.startGRPC(serverErrCh)
	if err != nil {
		_ = server.Close()
		_ = a.Shutdown(context.Background())
		return fmt.Errorf("gRPC server error: %w", err)
	}

	select {
	case <-ctx.Done():
		logger.Log.Infoln("Received shutdown signal. Closing the store and exiting...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if grpcServer != nil {
			grpcServer.GracefulStop()
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		return a.Shutdown(shutdownCtx)

	case err := <-serverErrCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		if grpcServer != nil {
			grpcServer.Stop()
		}
		_ = server.Close()
		_ = a.Shutdown(context.Background())
		return fmt.Errorf("server error: %w", err)
	}
}

// startGRPC serves userdir.Users when an address is configured and returns
// the bound address. Serve errors are sent to errCh.
func (a *App) startGRPC(errCh chan<- error) (*grpc.Server, net.Addr, error) {
	if a.cfg.GRPCAddr == "" {
		return nil, nil, nil
	}

	grpcServer, lis, err := grpcserver.NewGRPCServer(a.cfg.GRPCAddr, a.grpcHandler)
	if err != nil {
		return nil, nil, err
	}

	logger.Log.Infow("gRPC server running", "GRPCAddr", lis.Addr().String())
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	return grpcServer, lis.Addr(), nil
}

// Shutdown stops the dispatcher after one final flush, then releases the
// publisher and the store.
func (a *App) Shutdown(ctx context.Context) error {
	a.stopDispatcher()
	select {
	case <-a.dispatcher.Done():
	case <-ctx.Done():
		logger.Log.Warnln("event dispatcher did not stop in time")
	}

	return errors.Join(a.publisher.Close(), a.db.Close())
}

// Close flushes the logger.
func (a *App) Close() {
	if err := logger.Sync(); err != nil {
		fmt.Println("Logger sync error:", err)
	}
}

func getAvailableStorageType(cfg *config.Config) int {
	if cfg.DatabaseDSN != "" {
		return models.StorageTypePostgresql
	}

	if cfg.SQLitePath != "" {
		return models.StorageTypeSQLite
	}

	if cfg.DBFileName != "" {
		return models.StorageTypeFile
	}

	return models.StorageTypeMemory
}

func getStorageByType(cfg *config.Config) (storage.Storage, error) {
	switch getAvailableStorageType(cfg) {
	case models.StorageTypePostgresql:
		logger.Log.Infow("using PostgreSQL storage")
		return postgresdb.New(
			context.Background(),
			cfg.DatabaseDSN,
			cfg.DBConnectionTimeout,
		)

	case models.StorageTypeSQLite:
		logger.Log.Infow("using SQLite storage", "path", cfg.SQLitePath)
		return sqlitedb.New(cfg.SQLitePath)

	case models.StorageTypeFile:
		logger.Log.Infow("using JSON file storage", "path", cfg.DBFileName)
		return jsondb.New(cfg.DBFileName)

	default:
		logger.Log.Infow("using in-memory storage")
		return memorystorage.New()
	}
}

func getPublisher(cfg *config.Config) (events.Publisher, error) {
	if cfg.AMQPURL == "" {
		return events.NewLogPublisher(), nil
	}

	return events.NewAMQPPublisher(cfg.AMQPURL, cfg.EventsQueue)
}
