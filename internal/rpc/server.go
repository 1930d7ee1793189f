package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/record"
)

// Server adapts a chain.Chain[[]byte] to ChainServiceServer. Payload
// bytes pass through untouched; the caller on either side owns
// interpreting them as a concrete payload type.
type Server struct {
	Chain chain.Chain[[]byte]
}

func toEnvelope(sr record.SignedRecord[[]byte]) RecordEnvelope {
	return RecordEnvelope{
		Payload:   sr.Payload(),
		Hash:      sr.Hash(),
		Signer:    sr.Signer().Bytes(),
		Signature: sr.Signature().Bytes(),
		Metadata:  sr.Metadata().Bytes(),
	}
}

func fromEnvelope(env RecordEnvelope) (record.SignedRecord[[]byte], error) {
	pub, err := crypto.PublicKeyFromBytes(env.Signer)
	if err != nil {
		return record.SignedRecord[[]byte]{}, err
	}
	sig := crypto.SignatureFromBytes(env.Signature)
	meta := record.NewMetadata(env.Metadata)
	return record.Reconstruct(env.Payload, env.Hash, pub, sig, meta), nil
}

// Append builds a builder from req, appends it to the wrapped chain, and
// returns the resulting descriptor.
func (s *Server) Append(_ context.Context, req *AppendRequest) (*AppendResponse, error) {
	b := block.NewBuilder[[]byte](record.NewMetadata(req.Metadata), req.Nonce)
	for i, env := range req.Records {
		sr, err := fromEnvelope(env)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "rpc: decode record %d: %v", i, err)
		}
		b.Push(sr)
	}

	descriptor, err := s.Chain.Append(b)
	if err != nil {
		var invalid *chain.InvalidRecordError
		if errors.As(err, &invalid) {
			return nil, status.Errorf(codes.InvalidArgument, "%v", invalid)
		}
		if errors.Is(err, chain.ErrStorageError) {
			return nil, status.Errorf(codes.Unavailable, "%v", err)
		}
		return nil, status.Errorf(codes.Internal, "%v", err)
	}

	return &AppendResponse{
		Position:   descriptor.Position,
		Hash:       descriptor.Hash,
		MerkleRoot: descriptor.MerkleRoot,
		PrevHash:   descriptor.PrevHash,
		Nonce:      descriptor.Nonce,
	}, nil
}

// BlockAt retrieves and serializes the block at req.Position.
func (s *Server) BlockAt(_ context.Context, req *BlockAtRequest) (*BlockAtResponse, error) {
	blk, err := s.Chain.BlockAt(req.Position)
	if err != nil {
		if errors.Is(err, chain.ErrNotFound) {
			return nil, status.Errorf(codes.NotFound, "rpc: position %d not found", req.Position)
		}
		return nil, status.Errorf(codes.Internal, "%v", err)
	}
	records, err := blk.Records()
	if err != nil {
		return nil, status.Errorf(codes.Internal, "rpc: %v", err)
	}

	envs := make([]RecordEnvelope, len(records))
	for i, r := range records {
		envs[i] = toEnvelope(r)
	}

	return &BlockAtResponse{
		Position:   blk.Position(),
		Hash:       blk.Hash(),
		PrevHash:   blk.PrevHash(),
		MerkleRoot: blk.MerkleRoot(),
		Nonce:      blk.Nonce(),
		Timestamp:  blk.Timestamp(),
		Metadata:   blk.Metadata().Bytes(),
		Records:    envs,
	}, nil
}

// Len returns the chain's current block count.
func (s *Server) Len(_ context.Context, _ *LenRequest) (*LenResponse, error) {
	return &LenResponse{Length: s.Chain.Len()}, nil
}

var _ ChainServiceServer = (*Server)(nil)
