// Package grpc exposes the post and promocode services over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type PostService interface {
	CreatePost(ctx context.Context, ownerID, title, description string, isPrivate bool, tags []string) (*models.Post, error)
	GetPost(ctx context.Context, id, callerID string) (*models.Post, error)
	UpdatePost(ctx context.Context, id, callerID string, patch models.PostPatch) (*models.Post, error)
	DeletePost(ctx context.Context, id, callerID string) error
	ListPosts(ctx context.Context, callerID string, page, perPage int) ([]*models.Post, int64, error)
}

type PromocodeService interface {
	CreatePromocode(ctx context.Context, ownerID, name, description string, discount float64, code string) (*models.Promocode, error)
	GetPromocode(ctx context.Context, id, callerID string) (*models.Promocode, error)
	UpdatePromocode(ctx context.Context, id, callerID string, patch models.PromocodePatch) (*models.Promocode, error)
	DeletePromocode(ctx context.Context, id, callerID string) error
	ListPromocodes(ctx context.Context, callerID string, page, perPage int) ([]*models.Promocode, int64, error)
}

type GRPCServer struct {
	rpc.UnimplementedPostServiceServer
	rpc.UnimplementedPromocodeServiceServer
	address    string
	posts      PostService
	promocodes PromocodeService
	metrics    *Metrics
	health     *health.Server
	logger     logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, m *Metrics, ps PostService, cs PromocodeService) *GRPCServer {
	return &GRPCServer{
		address:    a,
		logger:     l.With("module", "grpc_server"),
		metrics:    m,
		posts:      ps,
		promocodes: cs,
		health:     health.NewServer(),
	}
}

// NewServer builds a gRPC server with the interceptor chain and every
// service registered, ready to Serve on any listener.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	chain := []grpc.UnaryServerInterceptor{s.recoveryInterceptor}
	if s.metrics != nil {
		chain = append(chain, s.metrics.Interceptor)
	}
	chain = append(chain, s.loggingInterceptor, s.callerInterceptor)

	srv := grpc.NewServer(append(opts, grpc.ChainUnaryInterceptor(chain...))...)

	rpc.RegisterPostServiceServer(srv, s)
	rpc.RegisterPromocodeServiceServer(srv, s)
	healthpb.RegisterHealthServer(srv, s.health)

	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(rpc.PostService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus(rpc.PromocodeService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)

	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
