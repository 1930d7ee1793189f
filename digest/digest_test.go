package digest_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nisaacdz/blockify/digest"
)

func TestSumIsDeterministic(t *testing.T) {
	a := digest.Sum([]byte("payload"))
	b := digest.Sum([]byte("payload"))
	require.Equal(t, a, b)
}

func TestPairOrderMatters(t *testing.T) {
	a := digest.Sum([]byte("left"))
	b := digest.Sum([]byte("right"))
	require.NotEqual(t, digest.Pair(a, b), digest.Pair(b, a))
}

func TestZeroIsZero(t *testing.T) {
	require.True(t, digest.Zero.IsZero())
	require.False(t, digest.Sum([]byte("x")).IsZero())
}

func TestCompareOrdersLexicographically(t *testing.T) {
	a, _ := digest.FromBytes(append([]byte{0x01}, make([]byte, digest.Size-1)...))
	b, _ := digest.FromBytes(append([]byte{0x02}, make([]byte, digest.Size-1)...))
	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, a.Compare(a))
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, ok := digest.FromBytes([]byte{1, 2, 3})
	require.False(t, ok)
}

func TestBytesRoundTrips(t *testing.T) {
	d := digest.Sum([]byte("round-trip"))
	rebuilt, ok := digest.FromBytes(d.Bytes())
	require.True(t, ok)
	require.Equal(t, d, rebuilt)
}
