package grpc

import (
	"context"
	"runtime/debug"
	"strings"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userIDKey ctxKey = "userID"

const healthPrefix = "/grpc.health.v1.Health/"

// WithUserID stores the caller identity in ctx.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok && v != ""
}

// callerInterceptor takes the caller identity from request metadata. The
// gateway sets it after verifying the bearer credential; calls without it
// are rejected before reaching a handler.
func (s *GRPCServer) callerInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if strings.HasPrefix(info.FullMethod, healthPrefix) {
		return handler(ctx, req)
	}

	var userID string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.UserIDMetadataKey); len(values) > 0 {
			userID = strings.TrimSpace(values[0])
		}
	}
	if userID == "" {
		return nil, status.Error(codes.Unauthenticated, "missing caller identity")
	}

	return handler(WithUserID(ctx, userID), req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	code := status.Code(err)
	args := []any{"method", info.FullMethod, "code", code.String(), "duration", time.Since(start)}
	switch code {
	case codes.OK:
		s.logger.Info(ctx, "rpc handled", args...)
	case codes.Internal, codes.Unknown:
		s.logger.Error(ctx, "rpc failed", append(args, "error", err)...)
	default:
		s.logger.Warn(ctx, "rpc rejected", append(args, "error", status.Convert(err).Message())...)
	}
	return resp, err
}

func (s *GRPCServer) recoveryInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {
	defer func() {
		if p := recover(); p != nil {
			s.logger.Error(ctx, "panic in handler", "method", info.FullMethod, "panic", p, "stack", string(debug.Stack()))
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}
	}()
	return handler(ctx, req)
}
