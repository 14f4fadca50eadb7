package grpc

import (
	"context"

	"github.com/dmitrijs2005/postpromo/internal/rpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	postResource      = "post"
	promocodeResource = "promocode"
)

func caller(ctx context.Context) (string, error) {
	userID, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing caller identity")
	}
	return userID, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, in *rpc.CreatePostRequest) (*rpc.Post, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.posts.CreatePost(ctx, userID, in.Title, in.Description, in.IsPrivate, in.Tags)
	if err != nil {
		return nil, s.fail(ctx, postResource, err)
	}

	s.logger.Info(ctx, "post created", "post_id", p.ID, "creator_id", userID)
	return rpc.PostFromModel(p), nil
}

func (s *GRPCServer) GetPost(ctx context.Context, in *rpc.GetPostRequest) (*rpc.Post, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.posts.GetPost(ctx, in.Id, userID)
	if err != nil {
		return nil, s.fail(ctx, postResource, err)
	}
	return rpc.PostFromModel(p), nil
}

func (s *GRPCServer) UpdatePost(ctx context.Context, in *rpc.UpdatePostRequest) (*rpc.Post, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.posts.UpdatePost(ctx, in.Id, userID, in.Patch())
	if err != nil {
		return nil, s.fail(ctx, postResource, err)
	}
	return rpc.PostFromModel(p), nil
}

func (s *GRPCServer) DeletePost(ctx context.Context, in *rpc.DeletePostRequest) (*rpc.Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.posts.DeletePost(ctx, in.Id, userID); err != nil {
		return nil, s.fail(ctx, postResource, err)
	}

	s.logger.Info(ctx, "post deleted", "post_id", in.Id)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ListPosts(ctx context.Context, in *rpc.ListPostsRequest) (*rpc.ListPostsResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	items, total, err := s.posts.ListPosts(ctx, userID, int(in.Page), int(in.PerPage))
	if err != nil {
		return nil, s.fail(ctx, postResource, err)
	}

	out := &rpc.ListPostsResponse{Posts: make([]*rpc.Post, 0, len(items)), Total: total}
	for _, p := range items {
		out.Posts = append(out.Posts, rpc.PostFromModel(p))
	}
	return out, nil
}
