// Package httpapi exposes the identity store over HTTP/JSON.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/identity/services"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

const healthCheckTimeout = 2 * time.Second

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	VerifyToken(ctx context.Context, token string) (*models.Identity, error)
	Profile(ctx context.Context, userID string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error)
}

type Handler struct {
	users    UserService
	validate *validator.Validate
	logger   logging.Logger
	ping     func(context.Context) error
}

// NewHandler builds the HTTP layer. ping backs /healthz and may be nil.
func NewHandler(users UserService, logger logging.Logger, ping func(context.Context) error) *Handler {
	return &Handler{
		users:    users,
		validate: httpx.NewValidator(),
		logger:   logger.With("module", "httpapi"),
		ping:     ping,
	}
}

// Router mounts every identity route. metrics may be nil.
func (h *Handler) Router(metrics *httpx.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}
	r.Use(httpx.RequestLogger(h.logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.healthz)
	r.Post("/register", h.register)
	r.Post("/login", h.login)

	r.Group(func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/verify-token", h.verifyToken)
		r.Put("/update-profile", h.updateProfile)
		r.Get("/profile", h.profile)
		r.Get("/protected-resource", h.protectedResource)
	})

	return r
}

// fail answers with the status matching err. Unknown errors are logged and
// reported as 500 without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error, conflict string) {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.WriteViolations(w, "Invalid input", ve.Violations)
	case errors.Is(err, common.ErrorInvalidArgument):
		httpx.WriteError(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, common.ErrorNotFound):
		httpx.WriteError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		httpx.WriteError(w, http.StatusConflict, conflict)
	case errors.Is(err, common.ErrorUnauthorized):
		unauthorized(w, "Invalid username or password")
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	httpx.WriteError(w, http.StatusUnauthorized, detail)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			h.logger.Warn(r.Context(), "health check failed", "error", err)
			httpx.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
