// Package httpx holds the HTTP plumbing shared by the identity store and the
// gateway: JSON responses, body decoding and validation, bearer extraction
// and chi middleware for request logs and metrics.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/common"
)

// FieldError names one rejected input field in an error body.
type FieldError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Detail string       `json:"detail"`
	Errors []FieldError `json:"errors,omitempty"`
}

// MessageResponse carries a human-readable confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteError(w http.ResponseWriter, status int, detail string) {
	WriteJSON(w, status, ErrorResponse{Detail: detail})
}

// WriteViolations answers 400 listing every rejected field.
func WriteViolations(w http.ResponseWriter, detail string, violations []common.FieldViolation) {
	resp := ErrorResponse{Detail: detail}
	for _, v := range violations {
		resp.Errors = append(resp.Errors, FieldError{Field: v.Field, Description: v.Description})
	}
	WriteJSON(w, http.StatusBadRequest, resp)
}
