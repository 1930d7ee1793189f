package rpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
)

const serviceName = "github.com/nisaacdz/blockify.v1.ChainService"

// ChainServiceServer is the server-side interface for the chain gRPC
// service.
type ChainServiceServer interface {
	Append(context.Context, *AppendRequest) (*AppendResponse, error)
	BlockAt(context.Context, *BlockAtRequest) (*BlockAtResponse, error)
	Len(context.Context, *LenRequest) (*LenResponse, error)
}

// RegisterChainServiceServer registers srv on s.
func RegisterChainServiceServer(s *grpc.Server, srv ChainServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func handlerAppend(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(AppendRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ChainServiceServer).Append(ctx, req)
}

func handlerBlockAt(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(BlockAtRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ChainServiceServer).BlockAt(ctx, req)
}

func handlerLen(srv any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
	req := new(LenRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(ChainServiceServer).Len(ctx, req)
}

func fullMethod(method string) string {
	return fmt.Sprintf("/%s/%s", serviceName, method)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*ChainServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Append", Handler: handlerAppend},
		{MethodName: "BlockAt", Handler: handlerBlockAt},
		{MethodName: "Len", Handler: handlerLen},
	},
	Metadata: "github.com/nisaacdz/blockify/internal/rpc/service",
}

