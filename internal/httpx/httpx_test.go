package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "Post not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"Post not found"}`, rec.Body.String())
}

func TestWriteViolations(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteViolations(rec, "invalid input", []common.FieldViolation{{Field: "title", Description: "is required"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"detail":"invalid input","errors":[{"field":"title","description":"is required"}]}`, rec.Body.String())
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"BEARER   abc", "abc", nil},
		{"", "", ErrMissingAuthorization},
		{"Basic abc", "", ErrMalformedAuthorization},
		{"Bearer", "", ErrMalformedAuthorization},
		{"Bearer a b", "", ErrMalformedAuthorization},
	}
	for _, tc := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			r.Header.Set("Authorization", tc.header)
		}
		got, err := BearerToken(r)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, tc.header)
			continue
		}
		require.NoError(t, err, tc.header)
		assert.Equal(t, tc.want, got)
	}
}

func TestDecodeCredentials(t *testing.T) {
	form := url.Values{"username": {"alice"}, "password": {"pw"}}
	r := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c, err := DecodeCredentials(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "alice", Password: "pw"}, c)

	r = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"username":"bob","password":"x"}`))
	r.Header.Set("Content-Type", "application/json")
	c, err = DecodeCredentials(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, Credentials{Username: "bob", Password: "x"}, c)

	r = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(""))
	c, err = DecodeCredentials(httptest.NewRecorder(), r)
	require.NoError(t, err)
	assert.Equal(t, Credentials{}, c)

	r = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("{"))
	_, err = DecodeCredentials(httptest.NewRecorder(), r)
	assert.Error(t, err)
}

func TestDecodeJSON_Empty(t *testing.T) {
	var dst map[string]any
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	err := DecodeJSON(httptest.NewRecorder(), r, &dst)
	assert.True(t, errors.Is(err, ErrEmptyBody))
}

func TestValidator(t *testing.T) {
	type body struct {
		Email    string   `json:"email" validate:"required,emailaddr"`
		Title    string   `json:"title" validate:"required,notblank"`
		Discount *float64 `json:"discount" validate:"omitempty,gte=0"`
	}
	v := NewValidator()

	neg := -1.0
	err := v.Struct(body{Email: "nope", Title: "  ", Discount: &neg})
	got := Violations(err)
	want := []common.FieldViolation{
		{Field: "email", Description: "must be a valid email address"},
		{Field: "title", Description: "must not be blank"},
		{Field: "discount", Description: "must be >= 0"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("violations mismatch (-want +got):\n%s", diff)
	}

	assert.NoError(t, v.Struct(body{Email: "a.b+c@example.co.uk", Title: "x"}))
	assert.Nil(t, Violations(errors.New("other")))
}

func TestMetricsMiddleware_LabelsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg, "test")
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Use(RequestLogger(logging.Nop{}))
	r.Get("/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "Post not found")
	})

	for _, id := range []string{"a", "b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/posts/"+id, nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/posts/{id}", "404")))

	_, err = NewMetrics(reg, "test")
	assert.Error(t, err, "duplicate registration must fail")
}

func TestRouteContextMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background())
	assert.Equal(t, "unmatched", routePattern(r))
}
