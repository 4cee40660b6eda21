package main

import (
	"github.com/aretw0/trove/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve [dir]",
	Short: "Start the HTTP server",
	Long:  `Serves generation, problems and Prometheus metrics over HTTP. With --watch, data changes are reloaded live.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		watch, _ := cmd.Flags().GetBool("watch")
		return cli.Serve(cli.ServeOptions{
			Options: sharedOptions(cmd, args),
			Addr:    addr,
			Watch:   watch,
		})
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides the config, default :2112)")
	serveCmd.Flags().BoolP("watch", "w", false, "Reload when the data directory changes")
}
