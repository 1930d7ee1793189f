// Package memchain implements chain.Chain entirely in RAM: an ordered,
// contiguous slice of blocks with no durability. It is the reference
// implementation used for tests and ephemeral use, with no disk-backed
// layer involved.
package memchain

import (
	"fmt"
	"sync"
	"time"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/digest"
)

// Chain is an in-memory chain.Chain[T]. The zero value is not usable;
// construct with New. Reads (BlockAt, Len) are safe to call concurrently
// with each other; Append must be externally serialized per the
// chain.Chain contract, though this implementation also takes its own
// lock defensively.
type Chain[T any] struct {
	mu     sync.Mutex
	blocks []*block.Block[T]
}

// New returns an empty in-memory chain.
func New[T any]() *Chain[T] {
	return &Chain[T]{}
}

// Append verifies every record in b, seals a new block at the current
// tip, and stores it. See chain.Chain.Append for the full contract.
func (c *Chain[T]) Append(b *block.Builder[T]) (*block.ChainedInstance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, r := range b.Records() {
		if err := r.Verify(); err != nil {
			return nil, &chain.InvalidRecordError{Index: i, Err: err}
		}
	}

	position := uint64(len(c.blocks))
	prevHash := digest.Zero
	if position > 0 {
		prevHash = c.blocks[position-1].Hash()
	}
	timestamp := time.Now().Unix()

	blk, err := block.Seal(b, position, prevHash, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chain.ErrStorageError, err)
	}
	c.blocks = append(c.blocks, blk)
	return blk.Descriptor(), nil
}

// BlockAt retrieves the block at position.
func (c *Chain[T]) BlockAt(position uint64) (*block.Block[T], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if position >= uint64(len(c.blocks)) {
		return nil, chain.ErrNotFound
	}
	return c.blocks[position], nil
}

// Len returns the number of blocks currently stored.
func (c *Chain[T]) Len() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return uint64(len(c.blocks))
}

var _ chain.Chain[struct{}] = (*Chain[struct{}])(nil)
