package main

import (
	"fmt"

	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/chain/kvchain"
	"github.com/nisaacdz/blockify/chain/memchain"
	"github.com/nisaacdz/blockify/chain/sqlchain"
	"github.com/nisaacdz/blockify/internal/config"
)

// closer is satisfied by the persistent back-ends; memchain has nothing
// to close.
type closer interface {
	Close() error
}

// openChain loads the ledger config at configPath and opens the chain
// back-end it names. Payloads are opaque bytes: ledgerctl audits
// structure and hashes, not application-level payload semantics.
func openChain() (chain.Chain[[]byte], func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}

	noop := func() error { return nil }

	switch cfg.Backend {
	case config.BackendMemory:
		return memchain.New[[]byte](), noop, nil
	case config.BackendKV:
		c, err := kvchain.Open[[]byte](cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("ledgerctl: open kv store %s: %w", cfg.Path, err)
		}
		var iface chain.Chain[[]byte] = c
		return iface, iface.(closer).Close, nil
	case config.BackendSQL:
		c, err := sqlchain.Open[[]byte](cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("ledgerctl: open sql store %s: %w", cfg.Path, err)
		}
		var iface chain.Chain[[]byte] = c
		return iface, iface.(closer).Close, nil
	default:
		return nil, nil, fmt.Errorf("ledgerctl: unknown backend %q", cfg.Backend)
	}
}
