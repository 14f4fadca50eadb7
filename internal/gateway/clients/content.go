package clients

import (
	"context"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
)

type ctxKey struct{}

// WithUserID marks ctx with the verified caller; every content call made
// with it carries the id in request metadata.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

func withUserIDMetadata(ctx context.Context, userID string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.UserIDMetadataKey, userID)

	return metadata.NewOutgoingContext(ctx, md)
}

// ContentClient is a connection to the content service.
type ContentClient struct {
	conn       *grpc.ClientConn
	timeout    time.Duration
	Posts      rpc.PostServiceClient
	Promocodes rpc.PromocodeServiceClient
	Health     healthpb.HealthClient
}

// NewContentClient prepares a lazy connection to addr. Extra dial options
// follow the defaults.
func NewContentClient(addr string, timeout time.Duration, opts ...grpc.DialOption) (*ContentClient, error) {
	c := &ContentClient{timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.callerInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.Posts = rpc.NewPostServiceClient(conn)
	c.Promocodes = rpc.NewPromocodeServiceClient(conn)
	c.Health = healthpb.NewHealthClient(conn)
	return c, nil
}

// callerInterceptor bounds every call and forwards the caller id.
func (c *ContentClient) callerInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if id, ok := UserIDFromContext(ctx); ok {
		ctx = withUserIDMetadata(ctx, id)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *ContentClient) Close() error {
	return c.conn.Close()
}
