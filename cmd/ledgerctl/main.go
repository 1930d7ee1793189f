// Command ledgerctl inspects an on-disk ledger store from outside the
// process that writes it: report its length, dump a block, or walk the
// whole chain checking hash and merkle-root integrity. It is a cobra
// root command with independently registered subcommands, one file per
// subcommand, each able to open any blockify chain back-end.
package main

import (
	"os"

	"github.com/nisaacdz/blockify/internal/logx"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logx.Error("LEDGERCTL", "command failed: %v", err)
		os.Exit(1)
	}
}
