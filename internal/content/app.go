// Package content initializes and runs the resource service: PostgreSQL
// storage, the post and promocode services, the gRPC endpoint and the
// metrics endpoint.
package content

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/config"
	gs "github.com/dmitrijs2005/postpromo/internal/content/grpc"
	"github.com/dmitrijs2005/postpromo/internal/content/repositories/repomanager"
	"github.com/dmitrijs2005/postpromo/internal/content/services"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type App struct {
	config     *config.Content
	logger     logging.Logger
	db         *sql.DB
	registry   *prometheus.Registry
	posts      *services.PostService
	promocodes *services.PromocodeService
}

func NewApp(ctx context.Context, c *config.Content) (*App, error) {
	logger := logging.NewService("content", c.LogLevel)

	db, err := dbx.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		config:     c,
		logger:     logger,
		db:         db,
		registry:   reg,
		posts:      services.NewPostService(db, rm),
		promocodes: services.NewPromocodeService(db, rm),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	m, err := gs.NewMetrics(app.registry)
	if err != nil {
		app.logger.Error(ctx, "metrics init error", "error", err)
		cancelFunc()
		return
	}

	s := gs.NewGRPCServer(app.config.Address, app.logger, m, app.posts, app.promocodes)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "gRPC server error", "error", err)
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))

	srv := &http.Server{Addr: app.config.MetricsAddress, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting metrics server", "address", app.config.MetricsAddress)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "metrics server error", "error", err)
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddress != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
