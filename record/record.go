// Package record binds a user-defined payload to its hash, signer,
// signature, and opaque metadata, producing a verifiable SignedRecord.
//
// A payload type needs nothing beyond what every plain Go struct already
// has: deterministic serialization (any shape the codec package supports),
// cloneability (Go value assignment), and equality (struct equality, for
// payloads built only from comparable fields). The gen package's code
// generator emits convenience methods (Hash, Sign, Verify, ToRecord) on a
// concrete payload type by delegating to the free functions in this
// package.
package record

import (
	"fmt"

	"github.com/nisaacdz/blockify/codec"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/digest"
)

// Metadata is an opaque, serializable attribute bag carried alongside
// records and blocks. The core never interprets its contents; it only
// forwards it and folds it into hashes.
type Metadata struct {
	raw []byte
}

// Empty returns the zero-value Metadata, serializing to a zero-length
// byte string.
func Empty() Metadata {
	return Metadata{}
}

// NewMetadata wraps an arbitrary opaque byte blob as Metadata.
func NewMetadata(raw []byte) Metadata {
	out := make([]byte, len(raw))
	copy(out, raw)
	return Metadata{raw: out}
}

// Bytes returns the raw metadata bytes.
func (m Metadata) Bytes() []byte {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	return out
}

// IsEmpty reports whether m carries no bytes.
func (m Metadata) IsEmpty() bool {
	return len(m.raw) == 0
}

// Hash computes H(codec.Encode(payload)), the payload-only hash. This is
// distinct from a SignedRecord's stored Hash, which additionally folds in
// metadata; see NewSignedRecord.
func Hash[T any](payload T) (digest.Digest, error) {
	b, err := codec.Encode(payload)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("record: hash payload: %w", err)
	}
	return digest.Sum(b), nil
}

// Sign signs Hash(payload) under kp.
func Sign[T any](payload T, kp crypto.KeyPair) (crypto.Signature, error) {
	h, err := Hash(payload)
	if err != nil {
		return crypto.Signature{}, err
	}
	return crypto.SignDigest(h, kp), nil
}

// VerifyPayload checks sig against Hash(payload) under pub.
func VerifyPayload[T any](payload T, sig crypto.Signature, pub crypto.PublicKey) error {
	h, err := Hash(payload)
	if err != nil {
		return err
	}
	return crypto.VerifyDigest(h, sig, pub)
}

// SignedRecord is the tuple (payload, hash, signer, signature, metadata).
// It is immutable once constructed by NewSignedRecord.
//
// hash == H(encode(payload) || encode(metadata)), which is NOT the same
// digest as Hash(payload) whenever metadata is non-empty; callers wanting
// end-to-end integrity should call VerifyIntegrity, since Verify only
// re-checks the stored signature against the stored hash.
type SignedRecord[T any] struct {
	payload   T
	hash      digest.Digest
	signer    crypto.PublicKey
	signature crypto.Signature
	metadata  Metadata
}

// NewSignedRecord constructs a SignedRecord: it hashes payload||metadata,
// signs that combined hash under kp, and binds kp's public half as the
// signer. Construction fails only if the payload or metadata cannot be
// serialized deterministically.
func NewSignedRecord[T any](payload T, kp crypto.KeyPair, meta Metadata) (SignedRecord[T], error) {
	h, err := combinedHash(payload, meta)
	if err != nil {
		return SignedRecord[T]{}, err
	}
	sig := crypto.SignDigest(h, kp)
	return SignedRecord[T]{
		payload:   payload,
		hash:      h,
		signer:    kp.Public(),
		signature: sig,
		metadata:  meta,
	}, nil
}

// Reconstruct rebuilds a SignedRecord from already-known parts, without
// re-signing. Storage back-ends use this to materialize a record read
// from disk; Verify/VerifyIntegrity on the result still check the
// restored signature and hash exactly as for a freshly-signed record.
func Reconstruct[T any](payload T, hash digest.Digest, signer crypto.PublicKey, signature crypto.Signature, meta Metadata) SignedRecord[T] {
	return SignedRecord[T]{
		payload:   payload,
		hash:      hash,
		signer:    signer,
		signature: signature,
		metadata:  meta,
	}
}

func combinedHash[T any](payload T, meta Metadata) (digest.Digest, error) {
	pb, err := codec.Encode(payload)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("record: encode payload: %w", err)
	}
	mb, err := codec.Encode(meta.raw)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("record: encode metadata: %w", err)
	}
	buf := make([]byte, 0, len(pb)+len(mb))
	buf = append(buf, pb...)
	buf = append(buf, mb...)
	return digest.Sum(buf), nil
}

// Payload returns the wrapped payload.
func (r SignedRecord[T]) Payload() T { return r.payload }

// Hash returns the stored combined hash H(payload||metadata).
func (r SignedRecord[T]) Hash() digest.Digest { return r.hash }

// Signer returns the public key that produced Signature.
func (r SignedRecord[T]) Signer() crypto.PublicKey { return r.signer }

// Signature returns the stored signature.
func (r SignedRecord[T]) Signature() crypto.Signature { return r.signature }

// Metadata returns the record's opaque metadata.
func (r SignedRecord[T]) Metadata() Metadata { return r.metadata }

// Verify re-checks the stored signature against the stored hash under
// the stored signer. It does not re-derive the hash from the payload;
// callers who need full end-to-end integrity should also call
// VerifyIntegrity.
func (r SignedRecord[T]) Verify() error {
	return crypto.VerifyDigest(r.hash, r.signature, r.signer)
}

// VerifyIntegrity recomputes H(payload||metadata) and compares it to the
// stored hash, in addition to the signature check Verify performs. Use
// this when the payload or metadata bytes may have been tampered with
// independently of the signature.
func (r SignedRecord[T]) VerifyIntegrity() error {
	if err := r.Verify(); err != nil {
		return err
	}
	h, err := combinedHash(r.payload, r.metadata)
	if err != nil {
		return err
	}
	if h != r.hash {
		return fmt.Errorf("record: stored hash does not match recomputed payload+metadata hash")
	}
	return nil
}
