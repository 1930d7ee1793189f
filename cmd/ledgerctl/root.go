package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ledgerctl",
	Short: "Inspect a blockify ledger store",
	Long:  "Command line interface for inspecting and auditing a blockify chain back-end from outside the process that owns it.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "ledgerctl.yml", "path to ledger config file")
}
