package main

import (
	"github.com/aretw0/trove/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [dir]",
	Short: "Export the asset reference graph",
	Long:  `Loads the data directory and outputs a Mermaid diagram (graph TD) of the references between assets.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Graph(sharedOptions(cmd, args))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
