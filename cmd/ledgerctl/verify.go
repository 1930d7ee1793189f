package main

import (
	"fmt"

	"github.com/nisaacdz/blockify/chain"
	"github.com/nisaacdz/blockify/internal/logx"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Walk the chain end to end checking hash and merkle-root integrity",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, closeFn, err := openChain()
		if err != nil {
			return err
		}
		defer func() {
			if err := closeFn(); err != nil {
				logx.Warn("LEDGERCTL", "close: %v", err)
			}
		}()

		if err := chain.Validate(c); err != nil {
			return err
		}
		fmt.Printf("ok: %d blocks verified\n", c.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
