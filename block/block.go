// Package block accumulates signed records into a Builder and freezes
// them into a hash-linked Block once a chain assigns it a position and
// predecessor hash. Assembly and hashing are kept as separate steps:
// fields are encoded deterministically and folded into a single
// SHA-256 digest only once a block is sealed.
package block

import (
	"errors"
	"fmt"

	"github.com/nisaacdz/blockify/codec"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/internal/apperr"
	"github.com/nisaacdz/blockify/merkle"
	"github.com/nisaacdz/blockify/record"
)

func init() {
	apperr.Register(apperr.KindRecords, func(err error) bool {
		var e *RecordsError
		return errors.As(err, &e)
	})
	apperr.Register(apperr.KindBlock, func(err error) bool {
		var e *BlockError
		return errors.As(err, &e)
	})
}

// RecordsError reports stored record bytes that cannot be decoded under
// the block's payload type. The persistent back-ends decode records when
// BlockAt materializes a block, so they report it from BlockAt
// (chain/kvchain folds its message into an ErrStorageError).
type RecordsError struct {
	Position uint64
	Err      error
}

func (e *RecordsError) Error() string {
	return fmt.Sprintf("block: decode records at position %d: %v", e.Position, e.Err)
}

func (e *RecordsError) Unwrap() error { return e.Err }

// BlockError is returned by Block.Validate when a ChainedInstance
// descriptor disagrees with the block it is supposed to describe.
type BlockError struct {
	Reason string
}

func (e *BlockError) Error() string { return "block: " + e.Reason }

// errMismatch builds the BlockError Validate returns when a descriptor
// field disagrees with the block. Each call returns a fresh value, so
// callers match it with errors.As on *BlockError, not errors.Is.
var errMismatch = func(field string) error {
	return &BlockError{Reason: fmt.Sprintf("descriptor %s does not match block", field)}
}

// ChainedInstance is the compact descriptor a Chain returns on Append: the
// minimum data needed to later re-validate a persisted block without
// holding its records.
type ChainedInstance struct {
	Position   uint64
	Hash       digest.Digest
	MerkleRoot digest.Digest
	PrevHash   digest.Digest
	Nonce      uint64
}

// Builder (== UnchainedInstance) accumulates signed records prior to
// sealing. It is not itself signed; sealing assigns position, prev_hash,
// and timestamp at chain-append time.
type Builder[T any] struct {
	metadata record.Metadata
	nonce    uint64
	records  []record.SignedRecord[T]

	rootValid bool
	root      digest.Digest
}

// NewBuilder starts an empty accumulator for payload type T.
func NewBuilder[T any](meta record.Metadata, nonce uint64) *Builder[T] {
	return &Builder[T]{metadata: meta, nonce: nonce, rootValid: true, root: digest.Zero}
}

// Push appends sr to the builder, preserving insertion order. The cached
// merkle root is invalidated; the builder is unbounded in size.
func (b *Builder[T]) Push(sr record.SignedRecord[T]) {
	b.records = append(b.records, sr)
	b.rootValid = false
}

// Records returns the records pushed so far, in insertion order.
func (b *Builder[T]) Records() []record.SignedRecord[T] {
	out := make([]record.SignedRecord[T], len(b.records))
	copy(out, b.records)
	return out
}

// Metadata returns the builder's metadata.
func (b *Builder[T]) Metadata() record.Metadata { return b.metadata }

// Nonce returns the builder's nonce.
func (b *Builder[T]) Nonce() uint64 { return b.nonce }

// MerkleRoot computes (or returns the cached) merkle root over the
// builder's record hashes, in insertion order.
func (b *Builder[T]) MerkleRoot() digest.Digest {
	if b.rootValid {
		return b.root
	}
	hashes := make([]digest.Digest, len(b.records))
	for i, r := range b.records {
		hashes[i] = r.Hash()
	}
	b.root = merkle.ComputeRoot(hashes)
	b.rootValid = true
	return b.root
}

// Block is the sealed, persisted form of a Builder. It is immutable once
// constructed by Seal.
type Block[T any] struct {
	metadata   record.Metadata
	nonce      uint64
	records    []record.SignedRecord[T]
	merkleRoot digest.Digest
	prevHash   digest.Digest
	timestamp  int64
	position   uint64
	hash       digest.Digest
}

// Seal freezes builder b at the given position, predecessor hash, and
// wall-clock timestamp (seconds since Unix epoch), computing the block
// hash. The chain, not the builder, assigns position, prevHash and
// timestamp.
func Seal[T any](b *Builder[T], position uint64, prevHash digest.Digest, timestamp int64) (*Block[T], error) {
	root := b.MerkleRoot()
	h, err := computeHash(root, prevHash, b.nonce, timestamp, position, b.metadata)
	if err != nil {
		return nil, err
	}
	return &Block[T]{
		metadata:   b.metadata,
		nonce:      b.nonce,
		records:    b.Records(),
		merkleRoot: root,
		prevHash:   prevHash,
		timestamp:  timestamp,
		position:   position,
		hash:       h,
	}, nil
}

// Reconstruct rebuilds an already-sealed Block from its persisted parts,
// used by chain back-ends materializing a block read from storage. It
// does not recompute the hash; callers who need to confirm storage
// integrity should call Validate or rely on SelfValid.
func Reconstruct[T any](
	metadata record.Metadata,
	nonce uint64,
	records []record.SignedRecord[T],
	merkleRoot, prevHash, hash digest.Digest,
	timestamp int64,
	position uint64,
) *Block[T] {
	out := make([]record.SignedRecord[T], len(records))
	copy(out, records)
	return &Block[T]{
		metadata:   metadata,
		nonce:      nonce,
		records:    out,
		merkleRoot: merkleRoot,
		prevHash:   prevHash,
		timestamp:  timestamp,
		position:   position,
		hash:       hash,
	}
}

func computeHash(merkleRoot, prevHash digest.Digest, nonce uint64, timestamp int64, position uint64, meta record.Metadata) (digest.Digest, error) {
	nonceBytes, err := codec.Encode(nonce)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("block: encode nonce: %w", err)
	}
	tsBytes, err := codec.Encode(timestamp)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("block: encode timestamp: %w", err)
	}
	posBytes, err := codec.Encode(position)
	if err != nil {
		return digest.Digest{}, fmt.Errorf("block: encode position: %w", err)
	}
	metaBytes, err := codec.Encode(meta.Bytes())
	if err != nil {
		return digest.Digest{}, fmt.Errorf("block: encode metadata: %w", err)
	}

	buf := make([]byte, 0, digest.Size*2+len(nonceBytes)+len(tsBytes)+len(posBytes)+len(metaBytes))
	buf = append(buf, merkleRoot[:]...)
	buf = append(buf, prevHash[:]...)
	buf = append(buf, nonceBytes...)
	buf = append(buf, tsBytes...)
	buf = append(buf, posBytes...)
	buf = append(buf, metaBytes...)
	return digest.Sum(buf), nil
}

// Records returns the block's signed records in insertion order. The
// records are already materialized when the block is built, so this
// never fails; decode failures surface from the back-end's BlockAt.
func (blk *Block[T]) Records() ([]record.SignedRecord[T], error) {
	out := make([]record.SignedRecord[T], len(blk.records))
	copy(out, blk.records)
	return out, nil
}

func (blk *Block[T]) Position() uint64          { return blk.position }
func (blk *Block[T]) Hash() digest.Digest       { return blk.hash }
func (blk *Block[T]) PrevHash() digest.Digest   { return blk.prevHash }
func (blk *Block[T]) MerkleRoot() digest.Digest { return blk.merkleRoot }
func (blk *Block[T]) Nonce() uint64             { return blk.nonce }
func (blk *Block[T]) Timestamp() int64          { return blk.timestamp }
func (blk *Block[T]) Metadata() record.Metadata { return blk.metadata }

// Validate checks that descriptor ci agrees with blk's computed values:
// hash, merkle root, prev-hash, nonce, and position. A mismatch in any
// field is reported as a BlockError naming that field.
func (blk *Block[T]) Validate(ci *ChainedInstance) error {
	if blk.position != ci.Position {
		return errMismatch("position")
	}
	if blk.nonce != ci.Nonce {
		return errMismatch("nonce")
	}
	if blk.prevHash != ci.PrevHash {
		return errMismatch("prev_hash")
	}
	if blk.merkleRoot != ci.MerkleRoot {
		return errMismatch("merkle_root")
	}
	if blk.hash != ci.Hash {
		return errMismatch("hash")
	}
	return nil
}

// SelfValid reports whether blk is internally consistent: every record
// independently verifies, the recomputed merkle root matches the stored
// one, and the recomputed block hash matches the stored one.
func (blk *Block[T]) SelfValid() error {
	hashes := make([]digest.Digest, len(blk.records))
	for i, r := range blk.records {
		if err := r.Verify(); err != nil {
			return fmt.Errorf("block: record %d: %w", i, err)
		}
		hashes[i] = r.Hash()
	}
	root := merkle.ComputeRoot(hashes)
	if root != blk.merkleRoot {
		return errors.New("block: recomputed merkle root does not match stored root")
	}
	h, err := computeHash(blk.merkleRoot, blk.prevHash, blk.nonce, blk.timestamp, blk.position, blk.metadata)
	if err != nil {
		return err
	}
	if h != blk.hash {
		return errors.New("block: recomputed hash does not match stored hash")
	}
	return nil
}

// Descriptor returns the ChainedInstance describing blk, as a chain
// implementation would hand back from Append.
func (blk *Block[T]) Descriptor() *ChainedInstance {
	return &ChainedInstance{
		Position:   blk.position,
		Hash:       blk.hash,
		MerkleRoot: blk.merkleRoot,
		PrevHash:   blk.prevHash,
		Nonce:      blk.nonce,
	}
}
