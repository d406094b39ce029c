// Code generated manually for bootstrap. See types.go for the note on
// replacing this with real protoc-gen-go/protoc-gen-go-grpc output.
package hkvpb

import (
	context "context"

	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// StoreServiceClient is the RunQuery/Commit/SplitQuery RPC surface
// exposed by a hierarchical key-value Store.
type StoreServiceClient interface {
	RunQuery(ctx context.Context, in *RunQueryRequest, opts ...grpc.CallOption) (*RunQueryResponse, error)
	Commit(ctx context.Context, in *CommitRequest, opts ...grpc.CallOption) (*CommitResponse, error)
	SplitQuery(ctx context.Context, in *SplitQueryRequest, opts ...grpc.CallOption) (*SplitQueryResponse, error)
}

type storeServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewStoreServiceClient wraps a grpc connection in the Store RPC client.
func NewStoreServiceClient(cc grpc.ClientConnInterface) StoreServiceClient {
	return &storeServiceClient{cc}
}

func (c *storeServiceClient) RunQuery(ctx context.Context, in *RunQueryRequest, opts ...grpc.CallOption) (*RunQueryResponse, error) {
	out := new(RunQueryResponse)
	if err := c.cc.Invoke(ctx, "/hkv.StoreService/RunQuery", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storeServiceClient) Commit(ctx context.Context, in *CommitRequest, opts ...grpc.CallOption) (*CommitResponse, error) {
	out := new(CommitResponse)
	if err := c.cc.Invoke(ctx, "/hkv.StoreService/Commit", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *storeServiceClient) SplitQuery(ctx context.Context, in *SplitQueryRequest, opts ...grpc.CallOption) (*SplitQueryResponse, error) {
	out := new(SplitQueryResponse)
	if err := c.cc.Invoke(ctx, "/hkv.StoreService/SplitQuery", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// StoreServiceServer is the server-side contract a Store implementation
// (production backend or local emulator) must satisfy.
type StoreServiceServer interface {
	RunQuery(context.Context, *RunQueryRequest) (*RunQueryResponse, error)
	Commit(context.Context, *CommitRequest) (*CommitResponse, error)
	SplitQuery(context.Context, *SplitQueryRequest) (*SplitQueryResponse, error)
}

// UnimplementedStoreServiceServer can be embedded to satisfy the
// interface while a service is partially implemented.
type UnimplementedStoreServiceServer struct{}

func (*UnimplementedStoreServiceServer) RunQuery(context.Context, *RunQueryRequest) (*RunQueryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RunQuery not implemented")
}

func (*UnimplementedStoreServiceServer) Commit(context.Context, *CommitRequest) (*CommitResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Commit not implemented")
}

func (*UnimplementedStoreServiceServer) SplitQuery(context.Context, *SplitQueryRequest) (*SplitQueryResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SplitQuery not implemented")
}

// RegisterStoreServiceServer registers srv on s.
func RegisterStoreServiceServer(s *grpc.Server, srv StoreServiceServer) {
	s.RegisterService(&storeServiceDesc, srv)
}

func storeRunQueryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(RunQueryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServiceServer).RunQuery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hkv.StoreService/RunQuery"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StoreServiceServer).RunQuery(ctx, req.(*RunQueryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func storeCommitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CommitRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServiceServer).Commit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hkv.StoreService/Commit"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StoreServiceServer).Commit(ctx, req.(*CommitRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func storeSplitQueryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(SplitQueryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(StoreServiceServer).SplitQuery(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/hkv.StoreService/SplitQuery"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(StoreServiceServer).SplitQuery(ctx, req.(*SplitQueryRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var storeServiceDesc = grpc.ServiceDesc{
	ServiceName: "hkv.StoreService",
	HandlerType: (*StoreServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RunQuery", Handler: storeRunQueryHandler},
		{MethodName: "Commit", Handler: storeCommitHandler},
		{MethodName: "SplitQuery", Handler: storeSplitQueryHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hkv.proto",
}
