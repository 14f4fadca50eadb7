package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/postpromo/internal/common"
)

var (
	ErrMissingAuthorization   = errors.New("missing authorization header")
	ErrMalformedAuthorization = errors.New("invalid authorization header format")
)

// BearerToken extracts the token from "Authorization: Bearer <token>". The
// scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get(common.AuthorizationHeader)
	if strings.TrimSpace(header) == "" {
		return "", ErrMissingAuthorization
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], common.BearerScheme) {
		return "", ErrMalformedAuthorization
	}
	return parts[1], nil
}
