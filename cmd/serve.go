package cmd

import (
	"WorshipHub/logger"
	"WorshipHub/server"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chord sheet preview server",
	Long:  `Serves rendered chord sheets over HTTP and live key changes over websockets. The cache is dropped whenever another process logs in or out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		addr := cfg.ServerAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		if err := sessions.Watch(ctx, func() { client.InvalidateAll(ctx) }); err != nil {
			logger.Warn("session watch disabled", logger.ErrorField(err))
		}

		return server.New(client).Start(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (overrides SERVER_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
