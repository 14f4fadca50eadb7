package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// MaxBodyBytes bounds every decoded request body.
const MaxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON reads one JSON document from the request body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// IsForm reports whether the request carries an HTML form body.
func IsForm(r *http.Request) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}

// Credentials is a username/password pair posted as a form or as JSON.
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// DecodeCredentials accepts both form-encoded and JSON login bodies.
func DecodeCredentials(w http.ResponseWriter, r *http.Request) (Credentials, error) {
	var c Credentials
	if IsForm(r) {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		if err := r.ParseMultipartForm(MaxBodyBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return c, fmt.Errorf("invalid form body: %w", err)
		}
		c.Username = r.PostFormValue("username")
		c.Password = r.PostFormValue("password")
		return c, nil
	}
	if err := DecodeJSON(w, r, &c); err != nil && !errors.Is(err, ErrEmptyBody) {
		return c, err
	}
	return c, nil
}
