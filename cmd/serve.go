package main

import (
	"github.com/spf13/cobra"

	"github.com/farellandr/eventreg/internal/server"
)

var serverPort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Migrate the schema and start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if serverPort != 0 {
			cfg.Server.Port = serverPort
		}

		logger.Info().Str("driver", cfg.Database.Driver).Msg("starting eventreg server")
		return server.Start(cfg, logger)
	},
}

func init() {
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (default: $PORT or 8080)")
}
