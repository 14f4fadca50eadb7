package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// fail converts a service error into a gRPC status. Unexpected errors are
// logged and reported as a bare Internal.
func (s *GRPCServer) fail(ctx context.Context, resource string, err error) error {
	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		return invalidArgument(ve)
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, resource+" not found")
	case errors.Is(err, common.ErrorPermissionDenied):
		return status.Error(codes.PermissionDenied, "not allowed to access this "+resource)
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, resource+" with this code already exists")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}

	s.logger.Error(ctx, "unexpected service error", "resource", resource, "error", err)
	return status.Error(codes.Internal, "internal error")
}

func invalidArgument(ve *common.ValidationError) error {
	st := status.New(codes.InvalidArgument, ve.Error())

	br := &errdetails.BadRequest{}
	for _, v := range ve.Violations {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       v.Field,
			Description: v.Description,
		})
	}

	withDetails, err := st.WithDetails(br)
	if err != nil {
		return st.Err()
	}
	return withDetails.Err()
}
