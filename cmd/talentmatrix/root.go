package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/config"
	"github.com/jonathan/talentmatrix/internal/db"
	"github.com/jonathan/talentmatrix/internal/fetch"
	"github.com/jonathan/talentmatrix/internal/gateway"
	"github.com/jonathan/talentmatrix/internal/github"
	"github.com/jonathan/talentmatrix/internal/observability"
	"github.com/jonathan/talentmatrix/internal/server"
	"github.com/jonathan/talentmatrix/internal/store"
)

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// application holds everything a command needs. It is built once per
// invocation by setupApp.
type application struct {
	cfg     config.Config
	logger  *slog.Logger
	db      *db.DB
	store   *store.Store
	printer *observability.Printer
}

var app *application

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath, os.Getenv)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Verbose = true
	}
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	logger := observability.NewLogger(cfg.Level(), observability.FormatText, cmd.ErrOrStderr())
	ctx := cmd.Context()

	state, err := db.Open(ctx, cfg.StatePath)
	if err != nil {
		return err
	}
	theme, err := state.Theme(ctx)
	if err != nil {
		_ = state.Close()
		return err
	}

	gwOpts, ghOpts, fetchOpts := clientOptions(cfg, timeout, logger)
	st := store.New(store.Deps{
		Gateway: gateway.New(cfg.GatewayURL, gwOpts),
		GitHub:  github.New(cfg.GithubURL, ghOpts),
		DB:      state,
		Logger:  logger,
		Fetch:   fetchOpts,
	})
	if _, err := st.Session.Restore(ctx); err != nil {
		_ = state.Close()
		return err
	}

	logger.Debug("client ready", "gateway", cfg.GatewayURL, "state", cfg.StatePath, "theme", theme)
	app = &application{
		cfg:     cfg,
		logger:  logger,
		db:      state,
		store:   st,
		printer: observability.NewPrinter(cmd.OutOrStdout(), theme),
	}
	return nil
}

// clientOptions applies the configured request timeout to every outbound
// client. Zero means no timeout for all of them.
func clientOptions(cfg config.Config, timeout time.Duration, logger *slog.Logger) (*gateway.Options, *github.Options, *fetch.Options) {
	gwOpts := gateway.DefaultOptions()
	gwOpts.Timeout = timeout
	gwOpts.Logger = logger

	ghOpts := github.DefaultOptions()
	ghOpts.Timeout = timeout
	ghOpts.Token = cfg.GithubToken
	ghOpts.Logger = logger

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = timeout
	return gwOpts, ghOpts, fetchOpts
}

func closeApp() {
	if app == nil {
		return
	}
	if err := app.db.Close(); err != nil {
		app.logger.Warn("failed to close state database", "error", err)
	}
	app = nil
}

// errNotLoggedIn is returned by dashboard commands run without a session.
var errNotLoggedIn = errors.New(server.NotLoggedInMessage)

// requireSession fails unless a login has been persisted.
func requireSession() error {
	if !app.store.Session.LoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// loadProfile requires a session and fetches the current profile.
func loadProfile(cmd *cobra.Command) error {
	if err := requireSession(); err != nil {
		return err
	}
	if err := app.store.Profile.Fetch(cmd.Context(), app.store.Session.UserID()); err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}
	return nil
}
