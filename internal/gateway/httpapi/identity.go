package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/gateway/clients"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
)

// relay copies an identity store answer to the client unchanged.
func relay(w http.ResponseWriter, resp *clients.Response) {
	ct := resp.ContentType
	if ct == "" {
		ct = "application/json"
	}
	w.Header().Set("Content-Type", ct)
	w.WriteHeader(resp.Status)
	_, _ = w.Write(resp.Body)
}

func (h *Handler) forward(w http.ResponseWriter, r *http.Request, path string, body []byte) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	resp, err := h.identity.Forward(r.Context(), r, path, rd)
	if err != nil {
		h.logger.Error(r.Context(), "identity passthrough failed", "path", path, "error", err)
		httpx.WriteError(w, http.StatusBadGateway, "identity service unavailable")
		return
	}
	relay(w, resp)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, httpx.MaxBodyBytes))
	if err != nil {
		httpx.WriteError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	return body, true
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	h.forward(w, r, "/register", body)
}

// login accepts a form or JSON body and always forwards a form.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	creds, err := httpx.DecodeCredentials(w, r)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	form := url.Values{"username": {creds.Username}, "password": {creds.Password}}
	fr := r.Clone(r.Context())
	fr.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.forward(w, fr, "/login", []byte(form.Encode()))
}

// updateProfile checks the email shape locally and forwards the body as is.
func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if len(bytes.TrimSpace(body)) > 0 {
		var fields struct {
			Email *string `json:"email"`
		}
		if err := json.Unmarshal(body, &fields); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if fields.Email != nil && !common.EmailPattern.MatchString(*fields.Email) {
			httpx.WriteError(w, http.StatusBadRequest, "Invalid email format")
			return
		}
	}
	if r.Header.Get("Content-Type") == "" {
		r.Header.Set("Content-Type", "application/json")
	}
	h.forward(w, r, "/update-profile", body)
}

func (h *Handler) relayGet(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.forward(w, r, path, nil)
	}
}
