package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"google.golang.org/protobuf/types/known/timestamppb"
)

// timestamp renders t as RFC 3339 with nanoseconds in UTC.
func timestamp(t *timestamppb.Timestamp) string {
	return t.AsTime().UTC().Format(time.RFC3339Nano)
}

// pageParams reads page and per_page from the query. Range checks are left
// to the content service; only the shape is checked here.
func pageParams(r *http.Request) (int32, int32, error) {
	v := &common.ValidationError{}
	page := queryInt(r, "page", common.DefaultPage, v)
	perPage := queryInt(r, "per_page", common.DefaultPerPage, v)
	return page, perPage, v.Err()
}

func queryInt(r *http.Request, name string, def int32, v *common.ValidationError) int32 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		v.Add(name, "must be an integer")
		return def
	}
	return int32(n)
}

// decodeBody reads and validates a JSON request body, answering 400 on
// failure. It reports whether the handler may continue.
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(w, r, dst); err != nil {
		if errors.Is(err, httpx.ErrEmptyBody) {
			httpx.WriteError(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		httpx.WriteError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		httpx.WriteViolations(w, "Invalid input", httpx.Violations(err))
		return false
	}
	return true
}

type listMeta struct {
	Total   int64 `json:"total"`
	Page    int32 `json:"page"`
	PerPage int32 `json:"per_page"`
}
