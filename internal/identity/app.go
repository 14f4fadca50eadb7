// Package identity initializes and runs the identity store: PostgreSQL
// storage, the token authority and the HTTP API.
package identity

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

	"github.com/dmitrijs2005/postpromo/internal/auth"
	"github.com/dmitrijs2005/postpromo/internal/config"
	"github.com/dmitrijs2005/postpromo/internal/dbx"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/identity/httpapi"
	"github.com/dmitrijs2005/postpromo/internal/identity/repositories/repomanager"
	"github.com/dmitrijs2005/postpromo/internal/identity/services"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Identity
	logger   logging.Logger
	db       *sql.DB
	registry *prometheus.Registry
	users    *services.UserService
}

func NewApp(ctx context.Context, c *config.Identity) (*App, error) {
	logger := logging.NewService("identity", c.LogLevel)

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

	authority := auth.NewAuthority([]byte(c.SecretKey), c.TokenTTL)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		registry: reg,
		users:    services.NewUserService(db, rm, authority),
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

func (app *App) router() (http.Handler, error) {
	m, err := httpx.NewMetrics(app.registry, "identity")
	if err != nil {
		return nil, err
	}

	h := httpapi.NewHandler(app.users, app.logger, app.db.PingContext)

	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(app.registry, promhttp.HandlerOpts{}))
	r.Mount("/", h.Router(m))
	return r, nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	handler, err := app.router()
	if err != nil {
		app.logger.Error(ctx, "router init error", "error", err)
		cancelFunc()
		return
	}

	srv := &http.Server{Addr: app.config.Address, Handler: handler, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.Address)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, "HTTP server error", "error", err)
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
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
