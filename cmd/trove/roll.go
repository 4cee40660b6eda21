package main

import (
	"github.com/aretw0/trove/internal/cli"
	"github.com/spf13/cobra"
)

var rollCmd = &cobra.Command{
	Use:   "roll <table>",
	Short: "Generate loot from a table",
	Example: `  trove roll chests/village --seed 42
  trove roll blocks/ore --param origin='{x: 0, y: 12, z: 0}' --param tool='{name: pickaxe, count: 1}' --param block_state=ore`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RollOptions{
			Options: sharedOptions(cmd, nil),
			Table:   args[0],
		}
		if cmd.Flags().Changed("seed") {
			seed, _ := cmd.Flags().GetUint64("seed")
			opts.Seed = &seed
		}
		opts.Luck, _ = cmd.Flags().GetFloat32("luck")
		opts.Times, _ = cmd.Flags().GetInt("times")
		opts.Params, _ = cmd.Flags().GetStringArray("param")
		return cli.Roll(cmd.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(rollCmd)
	rollCmd.Flags().Uint64("seed", 0, "Fix the random seed (later rolls use seed+1, seed+2, ...)")
	rollCmd.Flags().Float32("luck", 0, "Luck modifier")
	rollCmd.Flags().IntP("times", "n", 1, "Number of rolls")
	rollCmd.Flags().StringArrayP("param", "p", nil, "Parameter as key=value (value is YAML or JSON)")
}
