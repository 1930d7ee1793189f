package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nisaacdz/blockify/block"
	"github.com/nisaacdz/blockify/chain/kvchain"
	"github.com/nisaacdz/blockify/crypto"
	"github.com/nisaacdz/blockify/record"
)

func seedKVStore(t *testing.T, path string) {
	t.Helper()
	c, err := kvchain.Open[[]byte](path)
	require.NoError(t, err)
	defer c.Close()

	kp, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	sr, err := record.NewSignedRecord([]byte("hello"), kp, record.Empty())
	require.NoError(t, err)

	b := block.NewBuilder[[]byte](record.Empty(), 0)
	b.Push(sr)
	_, err = c.Append(b)
	require.NoError(t, err)
}

func writeConfig(t *testing.T, dir, storePath string) string {
	t.Helper()
	cfgPath := filepath.Join(dir, "ledgerctl.yml")
	contents := "backend: kv\npath: " + storePath + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(contents), 0o644))
	return cfgPath
}

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestLenReportsAppendedBlockCount(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.db")
	seedKVStore(t, storePath)
	cfgPath := writeConfig(t, dir, storePath)

	rootCmd.SetArgs([]string{"len", "--config", cfgPath})
	out := captureStdout(t, func() {
		require.NoError(t, rootCmd.Execute())
	})
	require.Equal(t, "1\n", out)
}

func TestVerifyPassesOnFreshlyAppendedChain(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.db")
	seedKVStore(t, storePath)
	cfgPath := writeConfig(t, dir, storePath)

	rootCmd.SetArgs([]string{"verify", "--config", cfgPath})
	require.NoError(t, rootCmd.Execute())
}

func TestInspectPrintsRecordPayload(t *testing.T) {
	dir := t.TempDir()
	storePath := filepath.Join(dir, "store.db")
	seedKVStore(t, storePath)
	cfgPath := writeConfig(t, dir, storePath)

	rootCmd.SetArgs([]string{"inspect", "--config", cfgPath, "--position", "0"})
	out := captureStdout(t, func() {
		require.NoError(t, rootCmd.Execute())
	})
	require.Contains(t, out, "aGVsbG8=") // base64 of "hello"
}
