// Package config loads the on-disk configuration cmd/ledgerctl runs
// against: which chain back-end to open, where its data lives, and how
// logging is set up. Loading is the usual shape: open file, yaml.Decoder,
// decode into a typed struct.
package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nisaacdz/blockify/crypto"
)

// Backend names a chain.Chain implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendKV     Backend = "kv"
	BackendSQL    Backend = "sql"
)

// LogConfig mirrors internal/logx.Options for YAML loading.
type LogConfig struct {
	Filename   string `yaml:"filename"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// LedgerConfig is the top-level shape of a ledgerctl config file.
type LedgerConfig struct {
	Backend Backend   `yaml:"backend"`
	Path    string    `yaml:"path"`
	Log     LogConfig `yaml:"log"`
}

// Load reads and parses a ledger config file at path.
func Load(path string) (*LedgerConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg LedgerConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendMemory
	}
	return &cfg, nil
}

// LoadEd25519KeyPair loads a hex-encoded Ed25519 private key from path
// and derives its KeyPair, bootstrapping a signing identity from disk.
func LoadEd25519KeyPair(path string) (crypto.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return crypto.KeyPair{}, fmt.Errorf("config: read key file %s: %w", path, err)
	}
	raw, err := hex.DecodeString(string(trimNewline(data)))
	if err != nil {
		return crypto.KeyPair{}, fmt.Errorf("config: decode hex key: %w", err)
	}
	if len(raw) != ed25519.PrivateKeySize {
		return crypto.KeyPair{}, fmt.Errorf("config: key file must contain %d bytes, got %d", ed25519.PrivateKeySize, len(raw))
	}
	return crypto.KeyPairFromSeed(raw)
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
