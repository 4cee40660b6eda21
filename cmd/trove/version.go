package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/trove"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of trove",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "trove version %s\n", strings.TrimSpace(trove.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
