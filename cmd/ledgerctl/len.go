package main

import (
	"fmt"

	"github.com/nisaacdz/blockify/internal/logx"
	"github.com/spf13/cobra"
)

var lenCmd = &cobra.Command{
	Use:   "len",
	Short: "Print the chain's current block count",
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

		fmt.Println(c.Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lenCmd)
}
