package rpc

import "github.com/nisaacdz/blockify/digest"

// RecordEnvelope is the wire shape of one record.SignedRecord[[]byte],
// carried opaque across the RPC boundary.
type RecordEnvelope struct {
	Payload   []byte
	Hash      digest.Digest
	Signer    []byte
	Signature []byte
	Metadata  []byte
}

// AppendRequest carries an unsealed builder's contents for ChainService.Append.
type AppendRequest struct {
	Metadata []byte
	Nonce    uint64
	Records  []RecordEnvelope
}

// AppendResponse is the wire shape of a block.ChainedInstance.
type AppendResponse struct {
	Position   uint64
	Hash       digest.Digest
	MerkleRoot digest.Digest
	PrevHash   digest.Digest
	Nonce      uint64
}

// BlockAtRequest identifies a block by position.
type BlockAtRequest struct {
	Position uint64
}

// BlockAtResponse is the wire shape of a fully materialized block.
type BlockAtResponse struct {
	Position   uint64
	Hash       digest.Digest
	PrevHash   digest.Digest
	MerkleRoot digest.Digest
	Nonce      uint64
	Timestamp  int64
	Metadata   []byte
	Records    []RecordEnvelope
}

// LenRequest is the (empty) request for ChainService.Len.
type LenRequest struct{}

// LenResponse carries a chain's current length.
type LenResponse struct {
	Length uint64
}
