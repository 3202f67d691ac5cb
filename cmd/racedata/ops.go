package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/apexline/racedata/common/clients"
)

func opsCMD() *cobra.Command {
	return &cobra.Command{
		Use:   "ops",
		Short: "List the catalog operations",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, op := range clients.Catalog {
				line := fmt.Sprintf("%-32s %s", op.Name, op.Path)
				if len(op.Required) > 0 {
					line += "  requires: " + strings.Join(op.Required, ", ")
				}
				if op.Chunked {
					line += "  [chunked]"
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
