// Package sqlchain implements chain.Chain over an embedded SQLite
// database, following the relational schema from the Rust original's
// diesel-backed sqlite_chain/sqlite_block module: a blocks table keyed
// by position and a records table keyed by (block_position, seq). It
// uses modernc.org/sqlite, a pure-Go driver, so the module stays
// CGO-free like the rest of the dependency stack.
package sqlchain

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/codec"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS blocks (
	position   INTEGER PRIMARY KEY,
	hash       BLOB NOT NULL,
	prev_hash  BLOB NOT NULL,
	merkle_root BLOB NOT NULL,
	nonce      INTEGER NOT NULL,
	timestamp  INTEGER NOT NULL,
	metadata   BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS records (
	block_position INTEGER NOT NULL,
	seq            INTEGER NOT NULL,
	payload        BLOB NOT NULL,
	hash           BLOB NOT NULL,
	signer         BLOB NOT NULL,
	signature      BLOB NOT NULL,
	metadata       BLOB NOT NULL,
	PRIMARY KEY (block_position, seq)
);
`

// Chain is a SQLite-backed, durable chain.Chain[T]. The zero value is
// not usable; construct with Open.
type Chain[T any] struct {
	db *sql.DB
}

// Open opens (creating if absent) a SQLite database file at path,
// initializing the blocks/records schema. Append serializes writes onto
// a single *sql.DB connection pool member at a time via SQLite's own
// transaction locking; callers still must not invoke Append
// concurrently on the same Chain, per the chain.Chain contract.
func Open[T any](path string) (*Chain[T], error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlchain: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlchain: init schema: %w", err)
	}
	return &Chain[T]{db: db}, nil
}

// Close releases the underlying database connection.
func (c *Chain[T]) Close() error {
	return c.db.Close()
}

// Append verifies every record in b, seals a new block at the current
// tip, and commits the block row plus its record rows in a single SQL
// transaction. On any failure the transaction is rolled back and the
// chain is left unmodified.
func (c *Chain[T]) Append(b *block.Builder[T]) (*block.ChainedInstance, error) {
	records := b.Records()
	for i, r := range records {
		if err := r.Verify(); err != nil {
			return nil, &chain.InvalidRecordError{Index: i, Err: err}
		}
	}

	tx, err := c.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: begin: %v", chain.ErrStorageError, err)
	}
	defer tx.Rollback()

	position, err := c.lenTx(tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", chain.ErrStorageError, err)
	}
	prevHash := digest.Zero
	if position > 0 {
		row := tx.QueryRow(`SELECT hash FROM blocks WHERE position = ?`, position-1)
		var prevHashBytes []byte
		if err := row.Scan(&prevHashBytes); err != nil {
			return nil, fmt.Errorf("%w: read tip: %v", chain.ErrStorageError, err)
		}
		d, ok := digest.FromBytes(prevHashBytes)
		if !ok {
			return nil, fmt.Errorf("%w: malformed stored hash", chain.ErrStorageError)
		}
		prevHash = d
	}
	timestamp := time.Now().Unix()

	blk, err := block.Seal(b, position, prevHash, timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: seal: %v", chain.ErrStorageError, err)
	}

	_, err = tx.Exec(
		`INSERT INTO blocks (position, hash, prev_hash, merkle_root, nonce, timestamp, metadata) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		blk.Position(), blk.Hash().Bytes(), blk.PrevHash().Bytes(), blk.MerkleRoot().Bytes(),
		blk.Nonce(), blk.Timestamp(), blk.Metadata().Bytes(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: insert block: %v", chain.ErrStorageError, err)
	}

	for i, r := range records {
		payloadBytes, err := codec.Encode(r.Payload())
		if err != nil {
			return nil, fmt.Errorf("%w: encode payload %d: %v", chain.ErrStorageError, i, err)
		}
		_, err = tx.Exec(
			`INSERT INTO records (block_position, seq, payload, hash, signer, signature, metadata) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			position, i, payloadBytes, r.Hash().Bytes(), r.Signer().Bytes(), r.Signature().Bytes(), r.Metadata().Bytes(),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: insert record %d: %v", chain.ErrStorageError, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit: %v", chain.ErrStorageError, err)
	}
	return blk.Descriptor(), nil
}

// BlockAt retrieves and fully materializes the block at position with a
// single row read from blocks plus a range read from records ordered by
// seq.
func (c *Chain[T]) BlockAt(position uint64) (*block.Block[T], error) {
	row := c.db.QueryRow(
		`SELECT hash, prev_hash, merkle_root, nonce, timestamp, metadata FROM blocks WHERE position = ?`,
		position,
	)
	var hashBytes, prevHashBytes, merkleRootBytes, metadataBytes []byte
	var nonce uint64
	var ts int64
	if err := row.Scan(&hashBytes, &prevHashBytes, &merkleRootBytes, &nonce, &ts, &metadataBytes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, chain.ErrNotFound
		}
		return nil, fmt.Errorf("%w: read block: %v", chain.ErrStorageError, err)
	}
	hash, ok1 := digest.FromBytes(hashBytes)
	prevHash, ok2 := digest.FromBytes(prevHashBytes)
	merkleRoot, ok3 := digest.FromBytes(merkleRootBytes)
	if !ok1 || !ok2 || !ok3 {
		return nil, fmt.Errorf("%w: malformed stored digest", chain.ErrStorageError)
	}

	rows, err := c.db.Query(
		`SELECT payload, hash, signer, signature, metadata FROM records WHERE block_position = ? ORDER BY seq`,
		position,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: read records: %v", chain.ErrStorageError, err)
	}
	defer rows.Close()

	var records []record.SignedRecord[T]
	for rows.Next() {
		var payloadBytes, rHashBytes, signerBytes, signatureBytes, rMetaBytes []byte
		if err := rows.Scan(&payloadBytes, &rHashBytes, &signerBytes, &signatureBytes, &rMetaBytes); err != nil {
			return nil, fmt.Errorf("%w: scan record: %v", chain.ErrStorageError, err)
		}
		var payload T
		if err := codec.Decode(payloadBytes, &payload); err != nil {
			return nil, &block.RecordsError{Position: position, Err: err}
		}
		rHash, ok := digest.FromBytes(rHashBytes)
		if !ok {
			return nil, &block.RecordsError{Position: position, Err: fmt.Errorf("malformed record hash")}
		}
		pub, err := crypto.PublicKeyFromBytes(signerBytes)
		if err != nil {
			return nil, &block.RecordsError{Position: position, Err: err}
		}
		sig := crypto.SignatureFromBytes(signatureBytes)
		records = append(records, record.Reconstruct(payload, rHash, pub, sig, record.NewMetadata(rMetaBytes)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate records: %v", chain.ErrStorageError, err)
	}

	blk := block.Reconstruct(
		record.NewMetadata(metadataBytes), nonce, records,
		merkleRoot, prevHash, hash,
		ts, position,
	)
	return blk, nil
}

// Len returns the number of committed blocks.
func (c *Chain[T]) Len() uint64 {
	tx, err := c.db.Begin()
	if err != nil {
		return 0
	}
	defer tx.Rollback()
	n, err := c.lenTx(tx)
	if err != nil {
		return 0
	}
	return n
}

func (c *Chain[T]) lenTx(tx *sql.Tx) (uint64, error) {
	var n uint64
	row := tx.QueryRow(`SELECT COUNT(*) FROM blocks`)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

var _ chain.Chain[struct{}] = (*Chain[struct{}])(nil)
