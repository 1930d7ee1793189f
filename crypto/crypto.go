// Package crypto provides the ledger's key generation, hashing, and
// signing primitives. Hashing is SHA-256 over the deterministic codec
// encoding; signing is Ed25519, keeping the two concerns split between
// crypto/ed25519 and crypto/sha256.
package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/nisaacdz/blockify/codec"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/internal/apperr"
)

// ErrInvalidSignature is returned by Verify when a signature does not
// check out against (hash, public key).
var ErrInvalidSignature = errors.New("crypto: invalid signature")

// ErrInvalidKey is returned when key bytes are malformed or the wrong
// length for the scheme.
var ErrInvalidKey = errors.New("crypto: invalid key")

func init() {
	apperr.Register(apperr.KindInvalidSignature, func(err error) bool {
		return errors.Is(err, ErrInvalidSignature)
	})
	apperr.Register(apperr.KindInvalidKey, func(err error) bool {
		return errors.Is(err, ErrInvalidKey)
	})
}

// PublicKey identifies a signer. Equality is byte-equality.
type PublicKey struct {
	raw ed25519.PublicKey
}

// Bytes returns the raw public key bytes.
func (p PublicKey) Bytes() []byte {
	out := make([]byte, len(p.raw))
	copy(out, p.raw)
	return out
}

// Equal reports whether p and other carry the same key bytes.
func (p PublicKey) Equal(other PublicKey) bool {
	return ed25519.PublicKey(p.raw).Equal(ed25519.PublicKey(other.raw))
}

// PublicKeyFromBytes validates and wraps raw Ed25519 public key bytes.
func PublicKeyFromBytes(b []byte) (PublicKey, error) {
	if len(b) != ed25519.PublicKeySize {
		return PublicKey{}, fmt.Errorf("%w: public key must be %d bytes, got %d", ErrInvalidKey, ed25519.PublicKeySize, len(b))
	}
	raw := make([]byte, len(b))
	copy(raw, b)
	return PublicKey{raw: raw}, nil
}

// String renders the public key as base58, the ledger's human-readable
// address form.
func (p PublicKey) String() string {
	return base58.Encode(p.raw)
}

// PublicKeyFromBase58 parses a base58-encoded public key, as produced by
// String.
func PublicKeyFromBase58(s string) (PublicKey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("%w: base58 decode: %v", ErrInvalidKey, err)
	}
	return PublicKeyFromBytes(raw)
}

// Signature is a byte string produced by signing a digest under a
// private key.
type Signature struct {
	raw []byte
}

// Bytes returns the raw signature bytes.
func (s Signature) Bytes() []byte {
	out := make([]byte, len(s.raw))
	copy(out, s.raw)
	return out
}

// SignatureFromBytes wraps raw signature bytes without validating them
// against any particular (hash, key) pair; Verify performs that check.
func SignatureFromBytes(b []byte) Signature {
	raw := make([]byte, len(b))
	copy(raw, b)
	return Signature{raw: raw}
}

// String renders the signature as base58.
func (s Signature) String() string {
	return base58.Encode(s.raw)
}

// SignatureFromBase58 parses a base58-encoded signature, as produced by
// String.
func SignatureFromBase58(s string) (Signature, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Signature{}, fmt.Errorf("crypto: base58 decode signature: %w", err)
	}
	return SignatureFromBytes(raw), nil
}

// KeyPair is a private signing key plus its derived public key. It is
// immutable after generation.
type KeyPair struct {
	priv ed25519.PrivateKey
	pub  PublicKey
}

// GenerateKeyPair draws a fresh, independent Ed25519 key pair from
// crypto/rand.
func GenerateKeyPair() (KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("crypto: generate key pair: %w", err)
	}
	return KeyPair{priv: priv, pub: PublicKey{raw: pub}}, nil
}

// KeyPairFromSeed rebuilds a KeyPair from a raw Ed25519 private key
// (seed || public, ed25519.PrivateKeySize bytes), as read from a key
// file rather than freshly generated.
func KeyPairFromSeed(raw []byte) (KeyPair, error) {
	if len(raw) != ed25519.PrivateKeySize {
		return KeyPair{}, fmt.Errorf("%w: private key must be %d bytes, got %d", ErrInvalidKey, ed25519.PrivateKeySize, len(raw))
	}
	priv := make(ed25519.PrivateKey, len(raw))
	copy(priv, raw)
	pub := priv.Public().(ed25519.PublicKey)
	return KeyPair{priv: priv, pub: PublicKey{raw: pub}}, nil
}

// Public returns the public half of kp.
func (kp KeyPair) Public() PublicKey {
	return kp.pub
}

// PrivateBytes returns the raw Ed25519 private key bytes (seed||public),
// the form config.LoadEd25519KeyPair reads back with KeyPairFromSeed.
// Callers persisting this to disk are responsible for its confidentiality.
func (kp KeyPair) PrivateBytes() []byte {
	out := make([]byte, len(kp.priv))
	copy(out, kp.priv)
	return out
}

// Clone returns an independent copy of kp; because KeyPair is immutable,
// this is the same value, but the method exists so callers can retain a
// copy explicitly after handing kp off to a function that otherwise
// looks like it takes ownership.
func (kp KeyPair) Clone() KeyPair {
	return kp
}

// Hash computes H(codec.Encode(v)), the library-wide digest function.
func Hash(v any) (digest.Digest, error) {
	b, err := codec.Encode(v)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("crypto: hash: %w", err)
	}
	return digest.Sum(b), nil
}

// Sign signs Hash(v) under kp's private key.
func Sign(v any, kp KeyPair) (Signature, error) {
	h, err := Hash(v)
	if err != nil {
		return Signature{}, err
	}
	return SignDigest(h, kp), nil
}

// SignDigest signs an already-computed digest directly, used where the
// caller has a combined hash (e.g. payload||metadata) rather than a
// single encodable value.
func SignDigest(h digest.Digest, kp KeyPair) Signature {
	sig := ed25519.Sign(kp.priv, h[:])
	return Signature{raw: sig}
}

// Verify checks that sig is a valid signature over Hash(v) under pub.
func Verify(v any, sig Signature, pub PublicKey) error {
	h, err := Hash(v)
	if err != nil {
		return err
	}
	return VerifyDigest(h, sig, pub)
}

// VerifyDigest checks sig against an already-computed digest.
func VerifyDigest(h digest.Digest, sig Signature, pub PublicKey) error {
	if len(pub.raw) != ed25519.PublicKeySize {
		return ErrInvalidKey
	}
	if !ed25519.Verify(ed25519.PublicKey(pub.raw), h[:], sig.raw) {
		return ErrInvalidSignature
	}
	return nil
}
