package rpc

import (
	"fmt"
	"net"

	"google.golang.org/grpc"

	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/internal/safego"
)

// ListenAndServe binds addr, registers a Server wrapping c, and starts
// accepting connections in the background. It returns immediately; the
// returned *grpc.Server's GracefulStop/Stop shuts the listener down. A
// panic inside the accept loop is fatal, since the server can't keep
// running without it.
func ListenAndServe(addr string, c chain.Chain[[]byte]) (*grpc.Server, error) {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("rpc: listen %s: %w", addr, err)
	}

	s := grpc.NewServer()
	RegisterChainServiceServer(s, &Server{Chain: c})

	safego.GoFatal("rpc-serve", func() {
		_ = s.Serve(lis)
	})

	return s, nil
}
