package crypto_test

import (
	"testing"

	"github.com/nisaacdz/blockify/crypto"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Session uint32
	Choice  int32
}

func TestSignVerify(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	p := payload{Session: 0, Choice: 2}
	sig, err := crypto.Sign(p, kp)
	require.NoError(t, err)

	require.NoError(t, crypto.Verify(p, sig, kp.Public()))
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	kpA, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	kpB, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	p := payload{Session: 1, Choice: 1}
	sig, err := crypto.Sign(p, kpA)
	require.NoError(t, err)

	err = crypto.Verify(p, sig, kpB.Public())
	require.ErrorIs(t, err, crypto.ErrInvalidSignature)
}

func TestHashDeterministic(t *testing.T) {
	p := payload{Session: 5, Choice: 9}
	h1, err := crypto.Hash(p)
	require.NoError(t, err)
	h2, err := crypto.Hash(p)
	require.NoError(t, err)
	require.Equal(t, h1, h2)
}

func TestPublicKeyFromBytesRejectsBadLength(t *testing.T) {
	_, err := crypto.PublicKeyFromBytes([]byte{1, 2, 3})
	require.ErrorIs(t, err, crypto.ErrInvalidKey)
}

func TestPublicKeyBase58RoundTrip(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)

	s := kp.Public().String()
	parsed, err := crypto.PublicKeyFromBase58(s)
	require.NoError(t, err)
	require.True(t, kp.Public().Equal(parsed))
}

func TestSignatureBase58RoundTrip(t *testing.T) {
	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	sig, err := crypto.Sign(payload{Session: 1, Choice: 1}, kp)
	require.NoError(t, err)

	s := sig.String()
	parsed, err := crypto.SignatureFromBase58(s)
	require.NoError(t, err)
	require.Equal(t, sig.Bytes(), parsed.Bytes())
}
