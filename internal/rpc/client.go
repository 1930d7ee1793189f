package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client is a thin ChainService client over a *grpc.ClientConn, calling
// through grpc.Invoke with the blockify codec rather than a generated
// stub.
type Client struct {
	conn *grpc.ClientConn
}

// NewClient wraps an established connection. Callers should dial with
// grpc.WithDefaultCallOptions(grpc.ForceCodec(Codec{})) so requests and
// responses use the ledger's deterministic codec instead of protobuf.
func NewClient(conn *grpc.ClientConn) *Client {
	return &Client{conn: conn}
}

func (c *Client) Append(ctx context.Context, req *AppendRequest) (*AppendResponse, error) {
	resp := new(AppendResponse)
	if err := c.conn.Invoke(ctx, fullMethod("Append"), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) BlockAt(ctx context.Context, req *BlockAtRequest) (*BlockAtResponse, error) {
	resp := new(BlockAtResponse)
	if err := c.conn.Invoke(ctx, fullMethod("BlockAt"), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) Len(ctx context.Context, req *LenRequest) (*LenResponse, error) {
	resp := new(LenResponse)
	if err := c.conn.Invoke(ctx, fullMethod("Len"), req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
