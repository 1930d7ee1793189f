// Package storerec is the single-blob wire format chain/kvchain uses to
// persist a record.SignedRecord[T]. SignedRecord's fields are unexported,
// so a back-end cannot codec.Encode it directly; this package provides
// the conversion. chain/sqlchain does not use it: it stores each record
// field in its own column.
package storerec

import (
	"fmt"

	"github.com/nisaacdz/blockify/codec"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/record"
)

// Envelope is the exported, codec-encodable shadow of a SignedRecord[T].
type Envelope[T any] struct {
	Payload   T
	Hash      digest.Digest
	Signer    []byte
	Signature []byte
	Metadata  []byte
}

// Encode converts sr to its wire bytes.
func Encode[T any](sr record.SignedRecord[T]) ([]byte, error) {
	env := Envelope[T]{
		Payload:   sr.Payload(),
		Hash:      sr.Hash(),
		Signer:    sr.Signer().Bytes(),
		Signature: sr.Signature().Bytes(),
		Metadata:  sr.Metadata().Bytes(),
	}
	b, err := codec.Encode(env)
	if err != nil {
		return nil, fmt.Errorf("storerec: encode: %w", err)
	}
	return b, nil
}

// Decode parses wire bytes back into a SignedRecord[T], via
// record.Reconstruct. The stored signature is not re-derived, only
// re-checked by callers that later call Verify.
func Decode[T any](b []byte) (record.SignedRecord[T], error) {
	var env Envelope[T]
	if err := codec.Decode(b, &env); err != nil {
		return record.SignedRecord[T]{}, fmt.Errorf("storerec: decode: %w", err)
	}
	pub, err := crypto.PublicKeyFromBytes(env.Signer)
	if err != nil {
		return record.SignedRecord[T]{}, fmt.Errorf("storerec: decode signer: %w", err)
	}
	sig := crypto.SignatureFromBytes(env.Signature)
	meta := record.NewMetadata(env.Metadata)
	return record.Reconstruct(env.Payload, env.Hash, pub, sig, meta), nil
}
