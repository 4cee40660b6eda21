package main

import (
	"github.com/aretw0/trove/internal/cli"
	"github.com/aretw0/trove/pkg/domain"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List published assets",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kindName, _ := cmd.Flags().GetString("kind")
		kind, err := domain.ParseKind(kindName)
		if err != nil {
			return err
		}
		return cli.List(sharedOptions(cmd, args), kind)
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringP("kind", "k", string(domain.KindLootTable), "Asset kind: loot_table, predicate or item_modifier")
}
