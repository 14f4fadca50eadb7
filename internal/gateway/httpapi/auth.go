package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/gateway/clients"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
)

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	httpx.WriteError(w, http.StatusUnauthorized, detail)
}

// requireBearer rejects requests without a well-formed bearer header before
// anything is forwarded.
func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := httpx.BearerToken(r); err != nil {
			unauthorized(w, "Not authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authenticate resolves the bearer token to a user id, from the cache when
// possible, and stores it in the request context for the content client.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := httpx.BearerToken(r)
		if err != nil {
			unauthorized(w, "Not authenticated")
			return
		}

		id, ok := h.cache.Get(r.Context(), token)
		if !ok {
			id, err = h.identity.VerifyToken(r.Context(), token)
			if err != nil {
				var ie *clients.IdentityError
				if errors.As(err, &ie) {
					unauthorized(w, ie.Detail)
					return
				}
				h.logger.Error(r.Context(), "token verification failed", "error", err)
				httpx.WriteError(w, http.StatusBadGateway, "identity service unavailable")
				return
			}
			h.cache.Set(r.Context(), token, id)
		}

		next.ServeHTTP(w, r.WithContext(clients.WithUserID(r.Context(), id.UserID)))
	})
}

// caller returns the id authenticate stored.
func caller(r *http.Request) string {
	id, _ := clients.UserIDFromContext(r.Context())
	return id
}
