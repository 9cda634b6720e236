package main

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

	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/dayledger/internal/broker"
	"github.com/MrJamesThe3rd/dayledger/internal/catalog"
	catalogStore "github.com/MrJamesThe3rd/dayledger/internal/catalog/store"
	"github.com/MrJamesThe3rd/dayledger/internal/config"
	"github.com/MrJamesThe3rd/dayledger/internal/database"
	ledgerHttp "github.com/MrJamesThe3rd/dayledger/internal/http"
	catalogHandler "github.com/MrJamesThe3rd/dayledger/internal/http/catalog"
	opHandler "github.com/MrJamesThe3rd/dayledger/internal/http/operation"
	"github.com/MrJamesThe3rd/dayledger/internal/lock"
	"github.com/MrJamesThe3rd/dayledger/internal/logger"
	"github.com/MrJamesThe3rd/dayledger/internal/operation"
	opStore "github.com/MrJamesThe3rd/dayledger/internal/operation/store"
	"github.com/MrJamesThe3rd/dayledger/internal/report"
)

type listener interface {
	operation.Broker
	Listen(ctx context.Context, handle broker.Handler) error
}

func main() {
	if err := run(); err != nil {
		logger.Log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Configure(cfg.Log.Level, cfg.Log.Format)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	var (
		notifier listener
		locker   operation.Locker
	)

	if cfg.Redis.Enabled {
		rdb, err := database.NewRedis(ctx, database.RedisOptions{
			URL:      cfg.Redis.URL,
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		notifier = broker.NewRedis(rdb, cfg.Redis.Channel)
		locker = lock.NewRedis(rdb)

		logger.Log.Info().Str("channel", cfg.Redis.Channel).Msg("using redis for notifications and locks")
	} else {
		notifier = broker.NewLocal(0)
		locker = lock.NewLocal()
	}

	var (
		catalogService   = catalog.NewService(catalogStore.New(db))
		operationService = operation.NewService(
			opStore.New(db),
			catalogService,
			notifier,
			locker,
			operation.WithLocation(loc),
			operation.WithAlertPolicy(operation.AlertPolicy{VarianceThreshold: cfg.Ledger.VarianceThreshold}),
			operation.WithLockTTL(cfg.Ledger.CloseLockTTL),
		)
		hub = operation.NewHub(operationService.Snapshot)
	)

	reportService, err := report.NewService(operationService, cfg.Report.Locale, cfg.Report.Currency)
	if err != nil {
		return err
	}

	router := ledgerHttp.New(
		cfg.Server.AllowedOrigins,
		catalogHandler.NewHandler(catalogService),
		opHandler.NewHandler(operationService, hub, reportService),
	)

	g, gctx := errgroup.WithContext(ctx)

	// WriteTimeout stays unset: snapshot streams are long-lived responses. They
	// end when gctx is cancelled on shutdown.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		err := notifier.Listen(gctx, hub.Notify)
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	})

	g.Go(func() error {
		logger.Log.Info().Str("addr", srv.Addr).Str("app", cfg.App.Name).Msg("starting server")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Log.Info().Msg("shutting down server")

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
