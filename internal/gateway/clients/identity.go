// Package clients talks to the gateway's upstreams: the identity store over
// HTTP and the content service over gRPC.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"github.com/dmitrijs2005/postpromo/internal/models"
)

// ErrIdentityUnavailable means the identity store could not be reached or
// answered with something unreadable.
var ErrIdentityUnavailable = errors.New("identity service unavailable")

// IdentityError is a non-200 answer from the identity store.
type IdentityError struct {
	Status int
	Detail string
}

func (e *IdentityError) Error() string {
	return fmt.Sprintf("identity service: %d %s", e.Status, e.Detail)
}

// Response is a relayed identity store answer.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// forwardHeaders are copied from the inbound request on passthrough calls.
var forwardHeaders = []string{common.AuthorizationHeader, "Content-Type", "Accept", "X-Request-Id"}

type IdentityClient struct {
	baseURL string
	client  *http.Client
}

func NewIdentityClient(baseURL string, timeout time.Duration) *IdentityClient {
	return &IdentityClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// VerifyToken asks the identity store who token belongs to.
func (c *IdentityClient) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/verify-token", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, httpx.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		var e httpx.ErrorResponse
		if json.Unmarshal(body, &e) != nil || e.Detail == "" {
			e.Detail = http.StatusText(resp.StatusCode)
		}
		return nil, &IdentityError{Status: resp.StatusCode, Detail: e.Detail}
	}

	id := &models.Identity{}
	if err := json.Unmarshal(body, id); err != nil || id.UserID == "" {
		return nil, fmt.Errorf("%w: malformed verify-token response", ErrIdentityUnavailable)
	}
	return id, nil
}

// Forward replays r against path on the identity store and returns the
// answer as is.
func (c *IdentityClient) Forward(ctx context.Context, r *http.Request, path string, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	for _, h := range forwardHeaders {
		if v := r.Header.Get(h); v != "" {
			req.Header.Set(h, v)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, httpx.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityUnavailable, err)
	}
	return &Response{Status: resp.StatusCode, ContentType: resp.Header.Get("Content-Type"), Body: out}, nil
}
