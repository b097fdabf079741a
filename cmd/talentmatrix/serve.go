package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/observability"
	"github.com/jonathan/talentmatrix/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local dashboard API",
	Long:  `Start an HTTP server exposing the profile, jobs, resume scan and books screens as JSON, with a server-sent event stream of state changes.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to config port, 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := servePort
	if port == 0 {
		port = app.cfg.Port
	}

	srv, err := server.New(server.Config{
		Port:     port,
		Store:    app.store,
		Settings: app.db,
		Logger:   observability.NewLogger(app.cfg.Level(), observability.FormatJSON, cmd.ErrOrStderr()),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	// The stored session, if any, is loaded up front so the first GET /profile
	// already has data.
	if app.store.Session.LoggedIn() {
		if err := app.store.Profile.Fetch(cmd.Context(), app.store.Session.UserID()); err != nil {
			app.logger.Warn("initial profile load failed", "error", err)
		}
	}
	return srv.Start(cmd.Context())
}
