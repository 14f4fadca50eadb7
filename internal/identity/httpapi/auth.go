package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/models"
)

type ctxKey struct{}

func identityFromContext(ctx context.Context) (*models.Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*models.Identity)
	return id, ok
}

// authenticate resolves the bearer token into an identity or answers 401.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := httpx.BearerToken(r)
		if err != nil {
			unauthorized(w, "Not authenticated")
			return
		}

		id, err := h.users.VerifyToken(r.Context(), token)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrTokenExpired):
			unauthorized(w, "Token expired")
			return
		case errors.Is(err, common.ErrInvalidToken):
			unauthorized(w, "Invalid token")
			return
		default:
			h.fail(w, r, err, "")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}
