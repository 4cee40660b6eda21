package main

import (
	"github.com/aretw0/trove/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check every asset for problems",
	Long:  `Loads the data directory and reports decode failures, disallowed parameters, missing references and loops.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		return cli.Validate(sharedOptions(cmd, args), strict)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Exit non-zero when problems are found")
}
