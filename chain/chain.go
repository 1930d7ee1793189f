// Package chain defines the ordered, hash-linked sequence of Blocks that
// back-ends in chain/memchain, chain/kvchain, and chain/sqlchain
// implement. It composes block.Builder/block.Block without adding its
// own serialization: each back-end owns how a block's bytes get to
// storage and back.
package chain

import (
	"errors"
	"fmt"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/internal/apperr"
)

func init() {
	apperr.Register(apperr.KindNotFound, func(err error) bool {
		return errors.Is(err, ErrNotFound)
	})
	apperr.Register(apperr.KindStorage, func(err error) bool {
		return errors.Is(err, ErrStorageError)
	})
}

// ErrNotFound is returned by BlockAt when position is out of range.
var ErrNotFound = errors.New("chain: position not found")

// ErrStorageError wraps an underlying store I/O or transaction failure
// from Append or BlockAt. Chain state is unchanged when this is returned
// from Append.
var ErrStorageError = errors.New("chain: storage error")

// InvalidRecordError is returned by Append when a builder contains a
// record that fails SignedRecord.Verify. Index identifies the offending
// record's position within the builder, in insertion order.
type InvalidRecordError struct {
	Index int
	Err   error
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("chain: record %d failed verification: %v", e.Index, e.Err)
}

func (e *InvalidRecordError) Unwrap() error { return e.Err }

// Chain is an ordered, gap-free sequence of Blocks indexed by position
// starting at 0. append is not required to be safe under concurrent
// invocation on the same instance; callers serialize externally.
type Chain[T any] interface {
	// Append verifies every record in b, seals it into a Block at the
	// next position with the current chain's tip hash as prev_hash and
	// the current wall-clock time as timestamp, commits it, and returns
	// a descriptor. On verification failure, returns *InvalidRecordError
	// and leaves the chain unmodified. On commit failure, returns
	// ErrStorageError and leaves the chain unmodified.
	Append(b *block.Builder[T]) (*block.ChainedInstance, error)

	// BlockAt retrieves the fully materialized block at position, or
	// ErrNotFound if position >= Len().
	BlockAt(position uint64) (*block.Block[T], error)

	// Len returns the current number of blocks (= the position the next
	// Append would assign).
	Len() uint64
}

// ByPosition is a lightweight descriptor for a block a caller already
// trusts to exist and be contiguous with its neighbors, letting it skip
// carrying a full ChainedInstance (hash, merkle root, prev-hash) just to
// look one up.
type ByPosition struct {
	Position uint64
}

// AtPosition fetches the block p names from c.
func AtPosition[T any](c Chain[T], p ByPosition) (*block.Block[T], error) {
	return c.BlockAt(p.Position)
}

// Validate walks c in order and checks, for each i>=1, that
// block[i].prev_hash == block[i-1].hash and that each block's stored
// merkle root and hash match their recomputed values. It is not required
// on the append-time path; callers and tests use it to audit a chain's
// integrity end to end.
func Validate[T any](c Chain[T]) error {
	n := c.Len()
	var prev *block.Block[T]
	for i := uint64(0); i < n; i++ {
		blk, err := c.BlockAt(i)
		if err != nil {
			return fmt.Errorf("chain: validate position %d: %w", i, err)
		}
		if err := blk.SelfValid(); err != nil {
			return fmt.Errorf("chain: validate position %d: %w", i, err)
		}
		if prev != nil && blk.PrevHash() != prev.Hash() {
			return fmt.Errorf("chain: validate position %d: prev_hash does not match block %d's hash", i, i-1)
		}
		if i == 0 && blk.PrevHash() != digest.Zero {
			return fmt.Errorf("chain: validate position 0: prev_hash is not the zero digest")
		}
		prev = blk
	}
	return nil
}
