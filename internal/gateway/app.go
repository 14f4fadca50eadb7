// Package gateway initializes and runs the public gateway: the identity
// store client, the content service client, the optional Redis identity
// cache and the REST surface.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/config"
	"github.com/dmitrijs2005/postpromo/internal/gateway/cache"
	"github.com/dmitrijs2005/postpromo/internal/gateway/clients"
	"github.com/dmitrijs2005/postpromo/internal/gateway/httpapi"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config   *config.Gateway
	logger   logging.Logger
	registry *prometheus.Registry
	identity *clients.IdentityClient
	content  *clients.ContentClient
	cache    cache.IdentityCache
}

func NewApp(ctx context.Context, c *config.Gateway) (*App, error) {
	logger := logging.NewService("gateway", c.LogLevel)

	content, err := clients.NewContentClient(c.ContentAddr, c.ContentTimeout)
	if err != nil {
		return nil, fmt.Errorf("content client init error: %w", err)
	}

	var idCache cache.IdentityCache = cache.Nop{}
	if c.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, c.RedisAddr, c.RedisPassword, c.RedisDB, c.CacheTTL, logger)
		if err != nil {
			logger.Warn(ctx, "redis unavailable, identity cache disabled", "address", c.RedisAddr, "error", err)
		} else {
			idCache = rc
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return &App{
		config:   c,
		logger:   logger,
		registry: reg,
		identity: clients.NewIdentityClient(c.IdentityURL, c.IdentityTimeout),
		content:  content,
		cache:    idCache,
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
	m, err := httpx.NewMetrics(app.registry, "gateway")
	if err != nil {
		return nil, err
	}

	h := httpapi.NewHandler(httpapi.Upstreams{
		Identity:   app.identity,
		Posts:      app.content.Posts,
		Promocodes: app.content.Promocodes,
		Health:     app.content.Health,
		Cache:      app.cache,
	}, app.logger)

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

	app.logger.Info(ctx, "Starting HTTP server", "address", app.config.Address,
		"identity_url", app.config.IdentityURL, "content_addr", app.config.ContentAddr)
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

	if err := app.content.Close(); err != nil {
		app.logger.Error(ctx, "content client close error", "error", err)
	}
	if err := app.cache.Close(); err != nil {
		app.logger.Error(ctx, "cache close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
