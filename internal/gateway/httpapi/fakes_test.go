package httpapi

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/postpromo/internal/common"
	"github.com/dmitrijs2005/postpromo/internal/gateway/clients"
	"github.com/dmitrijs2005/postpromo/internal/logging"
	"github.com/dmitrijs2005/postpromo/internal/models"
	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type MockIdentity struct{ mock.Mock }

func (m *MockIdentity) VerifyToken(ctx context.Context, token string) (*models.Identity, error) {
	args := m.Called(ctx, token)
	id, _ := args.Get(0).(*models.Identity)
	return id, args.Error(1)
}

func (m *MockIdentity) Forward(ctx context.Context, r *http.Request, path string, body io.Reader) (*clients.Response, error) {
	var b []byte
	if body != nil {
		b, _ = io.ReadAll(body)
	}
	args := m.Called(path, r.Header.Get("Content-Type"), string(b))
	resp, _ := args.Get(0).(*clients.Response)
	return resp, args.Error(1)
}

// memCache is an in-process identity cache.
type memCache struct {
	mu sync.Mutex
	m  map[string]*models.Identity
}

func (c *memCache) Get(_ context.Context, token string) (*models.Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.m[token]
	return id, ok
}

func (c *memCache) Set(_ context.Context, token string, id *models.Identity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[token] = id
}

func (c *memCache) Close() error { return nil }

// content is an in-memory content service speaking the real RPC contract.
type content struct {
	rpc.UnimplementedPostServiceServer
	rpc.UnimplementedPromocodeServiceServer

	mu     sync.Mutex
	seq    int
	clock  time.Time
	posts  map[string]*rpc.Post
	promos map[string]*rpc.Promocode
}

func newContent() *content {
	return &content{
		clock:  time.Date(2025, 1, 1, 0, 0, 0, 123456789, time.UTC),
		posts:  map[string]*rpc.Post{},
		promos: map[string]*rpc.Promocode{},
	}
}

func userID(ctx context.Context) (string, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(common.UserIDMetadataKey); len(v) == 1 && v[0] != "" {
		return v[0], nil
	}
	return "", status.Error(codes.Unauthenticated, "missing caller identity")
}

func invalid(field, desc string) error {
	st, _ := status.New(codes.InvalidArgument, "invalid argument").WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{{Field: field, Description: desc}},
	})
	return st.Err()
}

func (c *content) tick() *timestamppb.Timestamp {
	c.clock = c.clock.Add(time.Second)
	return timestamppb.New(c.clock)
}

func (c *content) nextID(prefix string) string {
	c.seq++
	return fmt.Sprintf("%s-%d", prefix, c.seq)
}

func (c *content) CreatePost(ctx context.Context, in *rpc.CreatePostRequest) (*rpc.Post, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.tick()
	p := &rpc.Post{Id: c.nextID("post"), Title: in.Title, Description: in.Description, CreatorId: uid,
		IsPrivate: in.IsPrivate, Tags: in.Tags, CreatedAt: now, UpdatedAt: now}
	c.posts[p.Id] = p
	return p, nil
}

func (c *content) GetPost(ctx context.Context, in *rpc.GetPostRequest) (*rpc.Post, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[in.Id]
	if !ok {
		return nil, status.Error(codes.NotFound, "post not found")
	}
	if p.IsPrivate && p.CreatorId != uid {
		return nil, status.Error(codes.PermissionDenied, "not allowed to access this post")
	}
	return p, nil
}

func (c *content) UpdatePost(ctx context.Context, in *rpc.UpdatePostRequest) (*rpc.Post, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[in.Id]
	if !ok {
		return nil, status.Error(codes.NotFound, "post not found")
	}
	if p.CreatorId != uid {
		return nil, status.Error(codes.PermissionDenied, "not allowed to access this post")
	}
	if in.Title != nil && *in.Title == "" {
		return nil, invalid("title", "must not be empty")
	}
	next := *p
	if in.Title != nil {
		next.Title = *in.Title
	}
	if in.Description != nil {
		next.Description = *in.Description
	}
	if in.IsPrivate != nil {
		next.IsPrivate = *in.IsPrivate
	}
	if in.Tags != nil {
		next.Tags = *in.Tags
	}
	next.UpdatedAt = c.tick()
	c.posts[p.Id] = &next
	return &next, nil
}

func (c *content) DeletePost(ctx context.Context, in *rpc.DeletePostRequest) (*rpc.Empty, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.posts[in.Id]
	if !ok {
		return nil, status.Error(codes.NotFound, "post not found")
	}
	if p.CreatorId != uid {
		return nil, status.Error(codes.PermissionDenied, "not allowed to access this post")
	}
	delete(c.posts, in.Id)
	return &rpc.Empty{}, nil
}

func (c *content) ListPosts(ctx context.Context, in *rpc.ListPostsRequest) (*rpc.ListPostsResponse, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	if in.Page < 1 {
		return nil, invalid("page", "must be >= 1")
	}
	if in.PerPage < 1 || in.PerPage > common.MaxPerPage {
		return nil, invalid("per_page", "must be between 1 and 100")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	resp := &rpc.ListPostsResponse{}
	for i := 1; i <= c.seq; i++ {
		p, ok := c.posts[fmt.Sprintf("post-%d", i)]
		if !ok || (p.IsPrivate && p.CreatorId != uid) {
			continue
		}
		resp.Total++
		if resp.Total > int64((in.Page-1)*in.PerPage) && len(resp.Posts) < int(in.PerPage) {
			resp.Posts = append(resp.Posts, p)
		}
	}
	return resp, nil
}

func (c *content) CreatePromocode(ctx context.Context, in *rpc.CreatePromocodeRequest) (*rpc.Promocode, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range c.promos {
		if p.Code == in.Code {
			return nil, status.Error(codes.AlreadyExists, "promocode with this code already exists")
		}
	}
	now := c.tick()
	p := &rpc.Promocode{Id: c.nextID("promo"), Name: in.Name, Description: in.Description, CreatorId: uid,
		Discount: in.Discount, Code: in.Code, CreatedAt: now, UpdatedAt: now}
	c.promos[p.Id] = p
	return p, nil
}

func (c *content) GetPromocode(ctx context.Context, in *rpc.GetPromocodeRequest) (*rpc.Promocode, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.promos[in.Id]
	if !ok {
		return nil, status.Error(codes.NotFound, "promocode not found")
	}
	if p.CreatorId != uid {
		return nil, status.Error(codes.PermissionDenied, "not allowed to access this promocode")
	}
	return p, nil
}

func (c *content) ListPromocodes(ctx context.Context, in *rpc.ListPromocodesRequest) (*rpc.ListPromocodesResponse, error) {
	uid, err := userID(ctx)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	resp := &rpc.ListPromocodesResponse{}
	for i := 1; i <= c.seq; i++ {
		if p, ok := c.promos[fmt.Sprintf("promo-%d", i)]; ok && p.CreatorId == uid {
			resp.Total++
			resp.Promocodes = append(resp.Promocodes, p)
		}
	}
	return resp, nil
}

const (
	aliceID = "0b6a9f7e-3c1d-4e5f-8a9b-0c1d2e3f4a5b"
	bobID   = "1c7b0a8f-4d2e-4f60-9bac-1d2e3f4a5b6c"
)

type harness struct {
	identity *MockIdentity
	cache    *memCache
	content  *content
	health   *health.Server
	server   *grpc.Server
	handler  http.Handler
}

// newHarness wires the gateway to an in-memory content service over
// bufconn. Tokens "alice" and "bob" verify to the matching users.
func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		identity: &MockIdentity{},
		cache:    &memCache{m: map[string]*models.Identity{}},
		content:  newContent(),
		health:   health.NewServer(),
		server:   grpc.NewServer(),
	}
	rpc.RegisterPostServiceServer(h.server, h.content)
	rpc.RegisterPromocodeServiceServer(h.server, h.content)
	healthpb.RegisterHealthServer(h.server, h.health)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = h.server.Serve(lis) }()
	t.Cleanup(h.server.Stop)

	cc, err := clients.NewContentClient("passthrough:///bufnet", time.Second,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)
	t.Cleanup(func() { _ = cc.Close() })

	exp := time.Now().Add(time.Hour)
	h.identity.On("VerifyToken", mock.Anything, "alice").Return(&models.Identity{UserID: aliceID, UserName: "alice", ExpiresAt: exp}, nil).Maybe()
	h.identity.On("VerifyToken", mock.Anything, "bob").Return(&models.Identity{UserID: bobID, UserName: "bob", ExpiresAt: exp}, nil).Maybe()

	h.handler = NewHandler(Upstreams{
		Identity:   h.identity,
		Posts:      cc.Posts,
		Promocodes: cc.Promocodes,
		Health:     cc.Health,
		Cache:      h.cache,
	}, logging.Nop{}).Router(nil)
	return h
}
