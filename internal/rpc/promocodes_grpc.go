package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	PromocodeService_CreatePromocode_FullMethodName = "/content.v1.PromocodeService/CreatePromocode"
	PromocodeService_GetPromocode_FullMethodName    = "/content.v1.PromocodeService/GetPromocode"
	PromocodeService_UpdatePromocode_FullMethodName = "/content.v1.PromocodeService/UpdatePromocode"
	PromocodeService_DeletePromocode_FullMethodName = "/content.v1.PromocodeService/DeletePromocode"
	PromocodeService_ListPromocodes_FullMethodName  = "/content.v1.PromocodeService/ListPromocodes"
)

// PromocodeServiceClient is the client API for PromocodeService.
type PromocodeServiceClient interface {
	CreatePromocode(ctx context.Context, in *CreatePromocodeRequest, opts ...grpc.CallOption) (*Promocode, error)
	GetPromocode(ctx context.Context, in *GetPromocodeRequest, opts ...grpc.CallOption) (*Promocode, error)
	UpdatePromocode(ctx context.Context, in *UpdatePromocodeRequest, opts ...grpc.CallOption) (*Promocode, error)
	DeletePromocode(ctx context.Context, in *DeletePromocodeRequest, opts ...grpc.CallOption) (*Empty, error)
	ListPromocodes(ctx context.Context, in *ListPromocodesRequest, opts ...grpc.CallOption) (*ListPromocodesResponse, error)
}

type promocodeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewPromocodeServiceClient(cc grpc.ClientConnInterface) PromocodeServiceClient {
	return &promocodeServiceClient{cc}
}

func (c *promocodeServiceClient) CreatePromocode(ctx context.Context, in *CreatePromocodeRequest, opts ...grpc.CallOption) (*Promocode, error) {
	out := new(Promocode)
	if err := c.cc.Invoke(ctx, PromocodeService_CreatePromocode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *promocodeServiceClient) GetPromocode(ctx context.Context, in *GetPromocodeRequest, opts ...grpc.CallOption) (*Promocode, error) {
	out := new(Promocode)
	if err := c.cc.Invoke(ctx, PromocodeService_GetPromocode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *promocodeServiceClient) UpdatePromocode(ctx context.Context, in *UpdatePromocodeRequest, opts ...grpc.CallOption) (*Promocode, error) {
	out := new(Promocode)
	if err := c.cc.Invoke(ctx, PromocodeService_UpdatePromocode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *promocodeServiceClient) DeletePromocode(ctx context.Context, in *DeletePromocodeRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, PromocodeService_DeletePromocode_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *promocodeServiceClient) ListPromocodes(ctx context.Context, in *ListPromocodesRequest, opts ...grpc.CallOption) (*ListPromocodesResponse, error) {
	out := new(ListPromocodesResponse)
	if err := c.cc.Invoke(ctx, PromocodeService_ListPromocodes_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// PromocodeServiceServer is the server API for PromocodeService.
// All implementations must embed UnimplementedPromocodeServiceServer.
type PromocodeServiceServer interface {
	CreatePromocode(context.Context, *CreatePromocodeRequest) (*Promocode, error)
	GetPromocode(context.Context, *GetPromocodeRequest) (*Promocode, error)
	UpdatePromocode(context.Context, *UpdatePromocodeRequest) (*Promocode, error)
	DeletePromocode(context.Context, *DeletePromocodeRequest) (*Empty, error)
	ListPromocodes(context.Context, *ListPromocodesRequest) (*ListPromocodesResponse, error)
	mustEmbedUnimplementedPromocodeServiceServer()
}

type UnimplementedPromocodeServiceServer struct{}

func (UnimplementedPromocodeServiceServer) CreatePromocode(context.Context, *CreatePromocodeRequest) (*Promocode, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreatePromocode not implemented")
}
func (UnimplementedPromocodeServiceServer) GetPromocode(context.Context, *GetPromocodeRequest) (*Promocode, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPromocode not implemented")
}
func (UnimplementedPromocodeServiceServer) UpdatePromocode(context.Context, *UpdatePromocodeRequest) (*Promocode, error) {
	return nil, status.Errorf(codes.Unimplemented, "method UpdatePromocode not implemented")
}
func (UnimplementedPromocodeServiceServer) DeletePromocode(context.Context, *DeletePromocodeRequest) (*Empty, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DeletePromocode not implemented")
}
func (UnimplementedPromocodeServiceServer) ListPromocodes(context.Context, *ListPromocodesRequest) (*ListPromocodesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListPromocodes not implemented")
}
func (UnimplementedPromocodeServiceServer) mustEmbedUnimplementedPromocodeServiceServer() {}

func RegisterPromocodeServiceServer(s grpc.ServiceRegistrar, srv PromocodeServiceServer) {
	s.RegisterService(&PromocodeService_ServiceDesc, srv)
}

func _PromocodeService_CreatePromocode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreatePromocodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PromocodeServiceServer).CreatePromocode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PromocodeService_CreatePromocode_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PromocodeServiceServer).CreatePromocode(ctx, req.(*CreatePromocodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PromocodeService_GetPromocode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetPromocodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PromocodeServiceServer).GetPromocode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PromocodeService_GetPromocode_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PromocodeServiceServer).GetPromocode(ctx, req.(*GetPromocodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PromocodeService_UpdatePromocode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UpdatePromocodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PromocodeServiceServer).UpdatePromocode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PromocodeService_UpdatePromocode_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PromocodeServiceServer).UpdatePromocode(ctx, req.(*UpdatePromocodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PromocodeService_DeletePromocode_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeletePromocodeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PromocodeServiceServer).DeletePromocode(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PromocodeService_DeletePromocode_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PromocodeServiceServer).DeletePromocode(ctx, req.(*DeletePromocodeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PromocodeService_ListPromocodes_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListPromocodesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PromocodeServiceServer).ListPromocodes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PromocodeService_ListPromocodes_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PromocodeServiceServer).ListPromocodes(ctx, req.(*ListPromocodesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PromocodeService_ServiceDesc is the grpc.ServiceDesc for PromocodeService.
var PromocodeService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "content.v1.PromocodeService",
	HandlerType: (*PromocodeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreatePromocode", Handler: _PromocodeService_CreatePromocode_Handler},
		{MethodName: "GetPromocode", Handler: _PromocodeService_GetPromocode_Handler},
		{MethodName: "UpdatePromocode", Handler: _PromocodeService_UpdatePromocode_Handler},
		{MethodName: "DeletePromocode", Handler: _PromocodeService_DeletePromocode_Handler},
		{MethodName: "ListPromocodes", Handler: _PromocodeService_ListPromocodes_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "content/v1/content.json",
}
