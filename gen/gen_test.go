package gen_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nisaacdz/blockify/gen"
	"github.com/stretchr/testify/require"
)

func TestFindTargetsFindsExportedStructs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "payload.go")
	src := `package votes

type Vote struct {
	Session uint32
	Choice  int32
}

type unexported struct{}

type Alias = Vote
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o600))

	targets, err := gen.FindTargets(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	require.Equal(t, "Vote", targets[0].Type)
	require.Equal(t, "votes", targets[0].Package)
}

func TestGenerateProducesValidMethods(t *testing.T) {
	out, err := gen.Generate(gen.Target{Package: "votes", Type: "Vote"})
	require.NoError(t, err)

	s := string(out)
	require.True(t, strings.Contains(s, "func (v Vote) Hash()"))
	require.True(t, strings.Contains(s, "func (v Vote) Sign(kp crypto.KeyPair)"))
	require.True(t, strings.Contains(s, "func (v Vote) Verify(sig crypto.Signature, pub crypto.PublicKey)"))
	require.True(t, strings.Contains(s, "func (v Vote) ToRecord(kp crypto.KeyPair, meta record.Metadata) (record.SignedRecord[Vote], error)"))
	require.True(t, strings.Contains(s, "package votes"))
}
