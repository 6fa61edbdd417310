package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kolkov/handoff/handoff"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := handoff.GetInfo()
			fmt.Fprintf(cmd.OutOrStdout(), "handoff version %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  default wait: %s\n", info.Wait)
			fmt.Fprintf(cmd.OutOrStdout(), "  audit:        %s\n", info.Audit)
		},
	}
}
