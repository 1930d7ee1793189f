package merkle_test

import (
	"testing"

	"github.com/nisaacdz/blockify/digest"
	"github.com/nisaacdz/blockify/merkle"
	"github.com/stretchr/testify/require"
)

func h(b byte) digest.Digest {
	var d digest.Digest
	d[0] = b
	return d
}

func TestEmpty(t *testing.T) {
	require.Equal(t, digest.Zero, merkle.ComputeRoot(nil))
}

func TestSingle(t *testing.T) {
	h0 := h(1)
	want := digest.Sum(h0[:])
	require.Equal(t, want, merkle.ComputeRoot([]digest.Digest{h0}))
}

func TestPair(t *testing.T) {
	h0, h1 := h(1), h(2)
	want := digest.Pair(h0, h1)
	require.Equal(t, want, merkle.ComputeRoot([]digest.Digest{h0, h1}))
}

func TestOddDuplicatesLast(t *testing.T) {
	h0, h1, h2 := h(1), h(2), h(3)
	level1 := []digest.Digest{digest.Pair(h0, h1), digest.Pair(h2, h2)}
	want := digest.Pair(level1[0], level1[1])
	require.Equal(t, want, merkle.ComputeRoot([]digest.Digest{h0, h1, h2}))
}

func TestDeterministic(t *testing.T) {
	hashes := []digest.Digest{h(1), h(2), h(3), h(4), h(5)}
	a := merkle.ComputeRoot(hashes)
	b := merkle.ComputeRoot(hashes)
	require.Equal(t, a, b)
}

func TestOrderSensitive(t *testing.T) {
	a := merkle.ComputeRoot([]digest.Digest{h(1), h(2)})
	b := merkle.ComputeRoot([]digest.Digest{h(2), h(1)})
	require.NotEqual(t, a, b)
}
