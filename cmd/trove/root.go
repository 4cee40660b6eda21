package main

import (
	"fmt"
	"os"

	"github.com/aretw0/trove/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "trove",
	Short:         "Trove is a declarative loot-generation engine",
	Long:          `Trove loads predicates, item modifiers and loot tables from a data directory, validates them and rolls loot.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", "", "Data directory (defaults to the config file or the current directory)")
	rootCmd.PersistentFlags().String("config", "trove.yaml", "Optional config file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "Print JSON instead of rendered markdown")
}

// sharedOptions reads the persistent flags. A positional argument stands in
// for --dir when the flag is not set.
func sharedOptions(cmd *cobra.Command, args []string) cli.Options {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && len(args) > 0 {
		dir = args[0]
	}
	configPath, _ := cmd.Flags().GetString("config")
	debug, _ := cmd.Flags().GetBool("debug")
	jsonMode, _ := cmd.Flags().GetBool("json")
	return cli.Options{
		ConfigPath: configPath,
		DataDir:    dir,
		Debug:      debug,
		JSON:       jsonMode,
		Out:        cmd.OutOrStdout(),
	}
}
