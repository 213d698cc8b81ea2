// Package server initializes and runs the gophauth server.
// It selects the credential store, runs migrations, warms the email filter,
// and serves the HTTP and gRPC endpoints until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"

	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/filter"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
	hs "github.com/dmitrijs2005/gophauth/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	registry    *prometheus.Registry
	userService *services.UserService
}

// NewApp connects the credential store and builds the user service. The email
// filter is warmed before NewApp returns, so the app is ready for signups.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	app := &App{config: c, logger: logger}

	var (
		rm   repomanager.RepositoryManager
		dbtx dbx.DBTX
	)

	if c.UsesMemoryStore() {
		logger.Warn(ctx, "Using in-memory credential store, accounts are lost on restart")
		rm = repomanager.NewInMemoryRepositoryManager()
	} else {
		db, err := dbx.Open(ctx, c.DatabaseDSN, c.DBConnectAttempts, c.DBConnectDelay)
		if err != nil {
			return nil, err
		}
		rm = repomanager.NewPostgresRepositoryManager()
		if err := rm.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, oops.Code("DB_MIGRATE_FAILED").Wrap(err)
		}
		app.db = db
		dbtx = db
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app.userService = services.NewUserService(
		dbtx,
		rm,
		filter.New(c.FilterCapacity, c.FilterFPRate),
		auth.NewBcryptHasher(c.BcryptCost),
		[]byte(c.SecretKey),
		logger,
		metrics.NewMetrics(app.registry),
	)

	if _, err := app.userService.WarmFilter(ctx); err != nil {
		app.Close()
		return nil, oops.Code("FILTER_WARMUP_FAILED").Wrap(err)
	}

	return app, nil
}

// Close releases the database pool, if any.
func (app *App) Close() {
	if app.db != nil {
		_ = app.db.Close()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	router := hs.NewRouter(app.userService, app.logger, app.registry)
	s := hs.NewHTTPServer(app.config.HTTPAddr, app.logger, router)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", logging.ErrorAttrs(err)...)
		cancelFunc()
		return err
	}
	return nil
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := gs.NewGRPCServer(app.config.GRPCAddr, app.logger, app.userService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server failed", logging.ErrorAttrs(err)...)
		cancelFunc()
		return err
	}
	return nil
}

// Run serves both endpoints until ctx is done or SIGINT/SIGTERM/SIGQUIT
// arrives. If either server fails, the other one is stopped too and the first
// error is returned.
func (app *App) Run(ctx context.Context) error {
	defer app.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	record := func(err error) {
		if err != nil {
			once.Do(func() { firstErr = err })
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		record(app.startHTTPServer(ctx, cancelFunc))
	}()
	go func() {
		defer wg.Done()
		record(app.startGRPCServer(ctx, cancelFunc))
	}()

	wg.Wait()

	app.logger.Info(context.Background(), "App stopped")
	return firstErr
}

// Migrate applies pending schema migrations and exits.
func Migrate(ctx context.Context, c *config.Config, logger logging.Logger) error {
	if c.UsesMemoryStore() {
		logger.Info(ctx, "In-memory store selected, nothing to migrate")
		return nil
	}

	db, err := dbx.Open(ctx, c.DatabaseDSN, c.DBConnectAttempts, c.DBConnectDelay)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db); err != nil {
		return oops.Code("DB_MIGRATE_FAILED").Wrap(err)
	}

	logger.Info(ctx, "Migrations applied")
	return nil
}
