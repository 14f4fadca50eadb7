package grpc

import (
	"context"

	"github.com/dmitrijs2005/postpromo/internal/rpc"
)

func (s *GRPCServer) CreatePromocode(ctx context.Context, in *rpc.CreatePromocodeRequest) (*rpc.Promocode, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.promocodes.CreatePromocode(ctx, userID, in.Name, in.Description, in.Discount, in.Code)
	if err != nil {
		return nil, s.fail(ctx, promocodeResource, err)
	}

	s.logger.Info(ctx, "promocode created", "promocode_id", p.ID, "creator_id", userID)
	return rpc.PromocodeFromModel(p), nil
}

func (s *GRPCServer) GetPromocode(ctx context.Context, in *rpc.GetPromocodeRequest) (*rpc.Promocode, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.promocodes.GetPromocode(ctx, in.Id, userID)
	if err != nil {
		return nil, s.fail(ctx, promocodeResource, err)
	}
	return rpc.PromocodeFromModel(p), nil
}

func (s *GRPCServer) UpdatePromocode(ctx context.Context, in *rpc.UpdatePromocodeRequest) (*rpc.Promocode, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.promocodes.UpdatePromocode(ctx, in.Id, userID, in.Patch())
	if err != nil {
		return nil, s.fail(ctx, promocodeResource, err)
	}
	return rpc.PromocodeFromModel(p), nil
}

func (s *GRPCServer) DeletePromocode(ctx context.Context, in *rpc.DeletePromocodeRequest) (*rpc.Empty, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.promocodes.DeletePromocode(ctx, in.Id, userID); err != nil {
		return nil, s.fail(ctx, promocodeResource, err)
	}

	s.logger.Info(ctx, "promocode deleted", "promocode_id", in.Id)
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) ListPromocodes(ctx context.Context, in *rpc.ListPromocodesRequest) (*rpc.ListPromocodesResponse, error) {
	userID, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	items, total, err := s.promocodes.ListPromocodes(ctx, userID, int(in.Page), int(in.PerPage))
	if err != nil {
		return nil, s.fail(ctx, promocodeResource, err)
	}

	out := &rpc.ListPromocodesResponse{Promocodes: make([]*rpc.Promocode, 0, len(items)), Total: total}
	for _, p := range items {
		out.Promocodes = append(out.Promocodes, rpc.PromocodeFromModel(p))
	}
	return out, nil
}
