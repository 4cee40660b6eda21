package main

import (
	"github.com/aretw0/trove/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [dir]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts Trove as an MCP server on stdio.
Agents can list tables, roll loot, read the problem report and reload data
through the list_tables, generate, problems and reload tools.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetBool("watch")
		return cli.MCP(sharedOptions(cmd, args), watch)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().BoolP("watch", "w", false, "Reload when the data directory changes")
}
