package chain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/chain/memchain"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/record"
)

func appendPayload(t *testing.T, c chain.Chain[[]byte], payload string) {
	t.Helper()
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	sr, err := record.NewSignedRecord([]byte(payload), kp, record.Empty())
	require.NoError(t, err)
	b := block.NewBuilder[[]byte](record.Empty(), 0)
	b.Push(sr)
	_, err = c.Append(b)
	require.NoError(t, err)
}

func TestValidatePassesOnHealthyChain(t *testing.T) {
	c := memchain.New[[]byte]()
	appendPayload(t, c, "a")
	appendPayload(t, c, "b")
	appendPayload(t, c, "c")

	require.NoError(t, chain.Validate[[]byte](c))
}

func TestAtPositionFetchesNamedBlock(t *testing.T) {
	c := memchain.New[[]byte]()
	appendPayload(t, c, "a")
	appendPayload(t, c, "b")

	blk, err := chain.AtPosition[[]byte](c, chain.ByPosition{Position: 1})
	require.NoError(t, err)
	require.Equal(t, uint64(1), blk.Position())
}

func TestAtPositionPropagatesNotFound(t *testing.T) {
	c := memchain.New[[]byte]()
	_, err := chain.AtPosition[[]byte](c, chain.ByPosition{Position: 0})
	require.ErrorIs(t, err, chain.ErrNotFound)
}
