// Package httpapi is the public REST surface of the gateway. It
// authenticates callers against the identity store, translates resource
// requests into content service calls and maps their outcome to HTTP.
package httpapi

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/gateway/cache"
	"github.com/dmitrijs2005/postpromo/internal/gateway/clients"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckTimeout = 2 * time.Second

type IdentityClient interface {
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)
	Forward(ctx context.Context, r *http.Request, path string, body io.Reader) (*clients.Response, error)
}

// Upstreams are the services the gateway fronts. Cache may be nil.
type Upstreams struct {
	Identity   IdentityClient
	Posts      rpc.PostServiceClient
	Promocodes rpc.PromocodeServiceClient
	Health     healthpb.HealthClient
	Cache      cache.IdentityCache
}

type Handler struct {
	identity   IdentityClient
	posts      rpc.PostServiceClient
	promocodes rpc.PromocodeServiceClient
	health     healthpb.HealthClient
	cache      cache.IdentityCache
	validate   *validator.Validate
	logger     logging.Logger
}

func NewHandler(u Upstreams, logger logging.Logger) *Handler {
	c := u.Cache
	if c == nil {
		c = cache.Nop{}
	}
	return &Handler{
		identity:   u.Identity,
		posts:      u.Posts,
		promocodes: u.Promocodes,
		health:     u.Health,
		cache:      c,
		validate:   httpx.NewValidator(),
		logger:     logger.With("module", "gateway_http"),
	}
}

// Router mounts every public route. metrics may be nil.
func (h *Handler) Router(metrics *httpx.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(httpx.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", h.welcome)
	r.Get("/healthz", h.healthz)
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(requireBearer)
		r.Put("/update-profile", h.updateProfile)
		r.Get("/profile", h.relayGet("/profile"))
		r.Get("/protected-resource", h.relayGet("/protected-resource"))
	})

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/posts", func(r chi.Router) {
			r.Post("/", h.createPost)
			r.Get("/", h.listPosts)
			r.Get("/{id}", h.getPost)
			r.Put("/{id}", h.updatePost)
			r.Delete("/{id}", h.deletePost)
		})

		r.Route("/promocodes", func(r chi.Router) {
			r.Post("/", h.createPromocode)
			r.Get("/", h.listPromocodes)
			r.Get("/{id}", h.getPromocode)
			r.Put("/{id}", h.updatePromocode)
			r.Delete("/{id}", h.deletePromocode)
		})
	})

	return r
}

func (h *Handler) welcome(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, httpx.MessageResponse{Message: "Welcome to the System API"})
}

// healthz reports the content service through the gRPC health protocol.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp, err := h.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil || resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		h.logger.Warn(r.Context(), "content service not serving", "error", err, "status", resp.GetStatus().String())
		httpx.WriteError(w, http.StatusServiceUnavailable, "content service unavailable")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
