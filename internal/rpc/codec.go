// Package rpc provides the gRPC transport for a chain.Chain, serialized
// with the ledger's own deterministic codec instead of protobuf: no
// .proto files, no generated stubs, just a custom encoding.Codec plus a
// hand-written grpc.ServiceDesc.
//
// Generics don't survive the gRPC boundary (a grpc.ServiceDesc's handler
// type is a concrete interface), so ChainService operates over
// chain.Chain[[]byte]: payload bytes are carried opaque over the wire and
// re-parsed by the caller, the same type-erasure-at-the-boundary strategy
// the persistent chain back-ends use internally for storage.
package rpc

import (
	"fmt"
	"reflect"

	"google.golang.org/grpc/encoding"

	"github.com/nisaacdz/blockify/codec"
)

const codecName = "blockify-codec"

// Codec implements grpc/encoding.Codec using the ledger's deterministic
// binary codec.
type Codec struct{}

func (Codec) Marshal(v any) ([]byte, error) {
	// gRPC hands messages over as pointers. Encode the pointee so the
	// bytes carry no pointer presence tag, matching Unmarshal, which
	// decodes into the value a pointer target points at.
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && !rv.IsNil() {
		v = rv.Elem().Interface()
	}
	b, err := codec.Encode(v)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal: %w", err)
	}
	return b, nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	if err := codec.Decode(data, v); err != nil {
		return fmt.Errorf("rpc: unmarshal: %w", err)
	}
	return nil
}

func (Codec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(Codec{})
}
