// Package kvchain implements chain.Chain over a single embedded bbolt
// key-value file: one bucket for block headers keyed by position, one
// for records keyed by (position, seq). Keys use disjoint, ordered
// namespaces per bucket rather than string prefixes, so bbolt's two
// top-level buckets do the separation instead of key parsing.
package kvchain

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.etcd.io/bbolt"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/chain/internal/storerec"
	"github.com/nisaacdz/blockify/codec"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/record"
)

var (
	blocksBucket  = []byte("blocks")
	recordsBucket = []byte("records")
)

// header is the exported, codec-encodable shadow of a block's
// non-record fields, as stored in blocksBucket.
type header struct {
	Hash        digest.Digest
	PrevHash    digest.Digest
	MerkleRoot  digest.Digest
	Nonce       uint64
	Timestamp   int64
	Metadata    []byte
	RecordCount uint32
}

// Chain is a bbolt-backed, durable chain.Chain[T]. The zero value is not
// usable; construct with Open.
type Chain[T any] struct {
	mu sync.Mutex
	db *bbolt.DB
}

// Open opens (creating if absent) a bbolt file at path and ensures its
// buckets exist. The caller owns the returned Chain and must call Close
// when done; doing so releases the underlying file lock.
func Open[T any](path string) (*Chain[T], error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("kvchain: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(blocksBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(recordsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("kvchain: init buckets: %w", err)
	}
	return &Chain[T]{db: db}, nil
}

// Close releases the underlying bbolt file. Any in-flight write
// transaction is rolled back by bbolt itself.
func (c *Chain[T]) Close() error {
	return c.db.Close()
}

func positionKey(position uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, position)
	return key
}

func recordKey(position uint64, seq uint32) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint64(key[:8], position)
	binary.BigEndian.PutUint32(key[8:], seq)
	return key
}

// Append verifies every record in b, seals a new block at the current
// tip, and commits the block header plus its records in a single bbolt
// transaction. On any failure the transaction is rolled back and the
// chain is left unmodified.
func (c *Chain[T]) Append(b *block.Builder[T]) (*block.ChainedInstance, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := b.Records()
	for i, r := range records {
		if err := r.Verify(); err != nil {
			return nil, &chain.InvalidRecordError{Index: i, Err: err}
		}
	}

	var descriptor *block.ChainedInstance
	err := c.db.Update(func(tx *bbolt.Tx) error {
		bb := tx.Bucket(blocksBucket)
		rb := tx.Bucket(recordsBucket)

		position := uint64(bb.Stats().KeyN)
		prevHash := digest.Zero
		if position > 0 {
			prevBytes := bb.Get(positionKey(position - 1))
			var prevHdr header
			if err := codec.Decode(prevBytes, &prevHdr); err != nil {
				return fmt.Errorf("%w: decode tip header: %v", chain.ErrStorageError, err)
			}
			prevHash = prevHdr.Hash
		}
		timestamp := time.Now().Unix()

		blk, err := block.Seal(b, position, prevHash, timestamp)
		if err != nil {
			return fmt.Errorf("%w: seal: %v", chain.ErrStorageError, err)
		}

		hdr := header{
			Hash:        blk.Hash(),
			PrevHash:    blk.PrevHash(),
			MerkleRoot:  blk.MerkleRoot(),
			Nonce:       blk.Nonce(),
			Timestamp:   blk.Timestamp(),
			Metadata:    blk.Metadata().Bytes(),
			RecordCount: uint32(len(records)),
		}
		hdrBytes, err := codec.Encode(hdr)
		if err != nil {
			return fmt.Errorf("%w: encode header: %v", chain.ErrStorageError, err)
		}
		if err := bb.Put(positionKey(position), hdrBytes); err != nil {
			return fmt.Errorf("%w: put header: %v", chain.ErrStorageError, err)
		}

		for i, r := range records {
			envBytes, err := storerec.Encode(r)
			if err != nil {
				return fmt.Errorf("%w: encode record %d: %v", chain.ErrStorageError, i, err)
			}
			if err := rb.Put(recordKey(position, uint32(i)), envBytes); err != nil {
				return fmt.Errorf("%w: put record %d: %v", chain.ErrStorageError, i, err)
			}
		}

		descriptor = blk.Descriptor()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return descriptor, nil
}

// BlockAt retrieves and fully materializes the block at position.
func (c *Chain[T]) BlockAt(position uint64) (*block.Block[T], error) {
	var blk *block.Block[T]
	err := c.db.View(func(tx *bbolt.Tx) error {
		bb := tx.Bucket(blocksBucket)
		hdrBytes := bb.Get(positionKey(position))
		if hdrBytes == nil {
			return chain.ErrNotFound
		}
		var hdr header
		if err := codec.Decode(hdrBytes, &hdr); err != nil {
			return fmt.Errorf("%w: decode header: %v", chain.ErrStorageError, err)
		}

		rb := tx.Bucket(recordsBucket)
		records := make([]record.SignedRecord[T], 0, hdr.RecordCount)
		prefix := positionKey(position)
		cur := rb.Cursor()
		for k, v := cur.Seek(prefix); k != nil && len(k) == 12 && binary.BigEndian.Uint64(k[:8]) == position; k, v = cur.Next() {
			sr, err := storerec.Decode[T](v)
			if err != nil {
				return fmt.Errorf("%w: %v", chain.ErrStorageError, (&block.RecordsError{Position: position, Err: err}))
			}
			records = append(records, sr)
		}

		blk = block.Reconstruct(
			record.NewMetadata(hdr.Metadata), hdr.Nonce, records,
			hdr.MerkleRoot, hdr.PrevHash, hdr.Hash,
			hdr.Timestamp, position,
		)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return blk, nil
}

// Len returns the number of committed blocks.
func (c *Chain[T]) Len() uint64 {
	var n uint64
	c.db.View(func(tx *bbolt.Tx) error {
		n = uint64(tx.Bucket(blocksBucket).Stats().KeyN)
		return nil
	})
	return n
}

var _ chain.Chain[struct{}] = (*Chain[struct{}])(nil)
