package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/iliyamo/airline-seat-booking/internal/config"
	"github.com/iliyamo/airline-seat-booking/internal/database"
	"github.com/iliyamo/airline-seat-booking/internal/grid"
	"github.com/iliyamo/airline-seat-booking/internal/handler"
	"github.com/iliyamo/airline-seat-booking/internal/logger"
	"github.com/iliyamo/airline-seat-booking/internal/metrics"
	"github.com/iliyamo/airline-seat-booking/internal/middleware"
	"github.com/iliyamo/airline-seat-booking/internal/queue"
	"github.com/iliyamo/airline-seat-booking/internal/repository"
	"github.com/iliyamo/airline-seat-booking/internal/router"
	"github.com/iliyamo/airline-seat-booking/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

// openStores returns the seat store and the database behind the user
// repository.  The memory driver keeps users in a private in-memory SQLite
// database.
func openStores(ctx context.Context, cfg config.Config) (repository.SeatStore, *sql.DB, error) {
	var (
		db     *sql.DB
		driver = cfg.DBDriver
		err    error
	)
	switch cfg.DBDriver {
	case database.DriverMySQL:
		db, err = database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	case database.DriverSQLite:
		db, err = database.OpenSQLite(cfg.SQLitePath)
	case database.DriverMemory:
		driver = database.DriverSQLite
		db, err = database.OpenSQLite(":memory:")
	default:
		err = fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := database.Migrate(ctx, db, driver); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	if cfg.DBDriver == database.DriverMemory {
		return repository.NewMemSeatStore(), db, nil
	}
	return repository.NewSeatRepo(db, driver), db, nil
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	g, err := grid.New(cfg.Grid.Rows, cfg.Grid.Columns, cfg.Grid.Aisles)
	if err != nil {
		return fmt.Errorf("grid: %w", err)
	}

	seats, db, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := []service.Option{
		service.WithLogger(zl.Named("engine")),
		service.WithMetrics(metrics.NewRecorder(reg)),
	}
	if cfg.Broker.Enabled {
		pub := queue.NewPublisher(cfg.Broker.URL, zl.Named("publisher"))
		defer pub.Close()
		opts = append(opts, service.WithPublisher(pub))

		go func() {
			err := queue.StartSeatEventConsumer(ctx, cfg.Broker.URL, cfg.Broker.EventLog, zl.Named("consumer"))
			if err != nil && !errors.Is(err, context.Canceled) {
				zl.Error("seat event consumer stopped", zap.Error(err))
			}
		}()
	}

	engine := service.NewEngine(g, seats, service.Options{
		BaseFare:         cfg.Booking.BaseFare,
		CategoryPricing:  cfg.Booking.CategoryPricing,
		GroupSearch:      cfg.Booking.GroupSearch,
		PreferredColumns: cfg.Booking.PreferredColumns,
	}, opts...)
	if err := engine.Init(ctx); err != nil {
		return err
	}
	zl.Info("seat grid ready",
		zap.Int("rows", g.Rows()), zap.String("columns", g.Columns()), zap.String("driver", cfg.DBDriver))

	rdb, err := config.NewRedisClient(config.LoadRedisConfig())
	if err != nil {
		zl.Warn("redis unavailable, caching and rate limiting disabled", zap.Error(err))
	} else {
		defer rdb.Close()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(zl.Named("http")))

	deps := router.Deps{
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		Cache:     config.LoadCacheConfig(),
		RateLimit: config.LoadRateLimitConfig(),
		Gatherer:  reg,
		Log:       zl,
	}
	router.RegisterRoutes(e, deps)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, repository.NewUserRepo(db)), deps)
	router.RegisterSeats(e, handler.NewSeatHandler(engine, zl.Named("seats")), deps)

	errc := make(chan error, 1)
	go func() {
		addr := ":" + cfg.Port
		zl.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	zl.Info("shutting down")
	return e.Shutdown(shutdownCtx)
}
