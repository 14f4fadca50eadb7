package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/httpx"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// httpStatus maps a content service status code to its HTTP equivalent.
func httpStatus(c codes.Code) int {
	switch c {
	case codes.NotFound:
		return http.StatusNotFound
	case codes.PermissionDenied:
		return http.StatusForbidden
	case codes.AlreadyExists:
		return http.StatusConflict
	case codes.InvalidArgument:
		return http.StatusBadRequest
	case codes.Unauthenticated:
		return http.StatusUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// writeRPCError answers with the HTTP form of a failed content call.
func (h *Handler) writeRPCError(w http.ResponseWriter, r *http.Request, err error) {
	st := status.Convert(err)
	code := httpStatus(st.Code())

	switch {
	case st.Code() == codes.InvalidArgument:
		var violations []common.FieldViolation
		for _, d := range st.Details() {
			if br, ok := d.(*errdetails.BadRequest); ok {
				for _, fv := range br.GetFieldViolations() {
					violations = append(violations, common.FieldViolation{Field: fv.GetField(), Description: fv.GetDescription()})
				}
			}
		}
		if len(violations) > 0 {
			httpx.WriteViolations(w, "Invalid input", violations)
			return
		}
		httpx.WriteError(w, code, st.Message())
	case code == http.StatusBadGateway:
		h.logger.Warn(r.Context(), "content service unavailable", "code", st.Code().String(), "error", st.Message())
		httpx.WriteError(w, code, "content service unavailable")
	case code == http.StatusInternalServerError:
		h.logger.Error(r.Context(), "content service error", "code", st.Code().String(), "error", st.Message())
		httpx.WriteError(w, code, "internal error")
	default:
		httpx.WriteError(w, code, st.Message())
	}
}

// writeError answers for a failure detected in the gateway itself.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		httpx.WriteViolations(w, "Invalid input", ve.Violations)
		return
	}
	h.logger.Error(r.Context(), "request failed", "error", err)
	httpx.WriteError(w, http.StatusInternalServerError, "internal error")
}
