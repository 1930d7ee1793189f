package kvchain_test

import (
	"path/filepath"
	"testing"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/chain/kvchain"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/record"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Text string
}

func pushed(t *testing.T, kp crypto.KeyPair, nonce uint64, texts ...string) *block.Builder[payload] {
	t.Helper()
	b := block.NewBuilder[payload](record.Empty(), nonce)
	for _, text := range texts {
		sr, err := record.NewSignedRecord(payload{Text: text}, kp, record.Empty())
		require.NoError(t, err)
		b.Push(sr)
	}
	return b
}

func TestAppendAndBlockAt(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	dir := t.TempDir()
	c, err := kvchain.Open[payload](filepath.Join(dir, "chain.db"))
	require.NoError(t, err)
	defer c.Close()

	d0, err := c.Append(pushed(t, kp, 0, "abcd", "efgh", "ijkl"))
	require.NoError(t, err)
	d1, err := c.Append(pushed(t, kp, 1, "mnop", "qrst", "uvwx"))
	require.NoError(t, err)

	require.Equal(t, uint64(2), c.Len())

	blk0, err := c.BlockAt(0)
	require.NoError(t, err)
	blk1, err := c.BlockAt(1)
	require.NoError(t, err)

	require.NoError(t, blk0.Validate(d0))
	require.NoError(t, blk1.Validate(d1))
	require.Equal(t, blk0.Hash(), blk1.PrevHash())

	recs, err := blk0.Records()
	require.NoError(t, err)
	require.Equal(t, "abcd", recs[0].Payload().Text)
	require.Equal(t, "efgh", recs[1].Payload().Text)
	require.Equal(t, "ijkl", recs[2].Payload().Text)
}

func TestReopenPreservesChain(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "chain.db")

	c, err := kvchain.Open[payload](path)
	require.NoError(t, err)
	_, err = c.Append(pushed(t, kp, 0, "a", "b"))
	require.NoError(t, err)
	_, err = c.Append(pushed(t, kp, 1, "c"))
	require.NoError(t, err)
	require.NoError(t, c.Close())

	reopened, err := kvchain.Open[payload](path)
	require.NoError(t, err)
	defer reopened.Close()

	require.Equal(t, uint64(2), reopened.Len())
	blk1, err := reopened.BlockAt(1)
	require.NoError(t, err)
	recs, err := blk1.Records()
	require.NoError(t, err)
	require.Equal(t, "c", recs[0].Payload().Text)
	require.NoError(t, chain.Validate[payload](reopened))
}

func TestBlockAtOutOfRange(t *testing.T) {
	dir := t.TempDir()
	c, err := kvchain.Open[payload](filepath.Join(dir, "chain.db"))
	require.NoError(t, err)
	defer c.Close()

	_, err = c.BlockAt(0)
	require.ErrorIs(t, err, chain.ErrNotFound)
}

func TestEmptyBuilderAppendSucceeds(t *testing.T) {
	dir := t.TempDir()
	c, err := kvchain.Open[payload](filepath.Join(dir, "chain.db"))
	require.NoError(t, err)
	defer c.Close()

	b := block.NewBuilder[payload](record.Empty(), 0)
	d, err := c.Append(b)
	require.NoError(t, err)

	blk, err := c.BlockAt(0)
	require.NoError(t, err)
	require.Equal(t, digest.Zero, blk.MerkleRoot())
	require.NoError(t, blk.Validate(d))
	require.NoError(t, blk.SelfValid())
}
