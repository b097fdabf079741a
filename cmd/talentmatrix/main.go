// Package main provides the entry point for the TalentMatrix placement client.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/server"
)

var rootCmd = &cobra.Command{
	Use:               "talentmatrix",
	Short:             "TalentMatrix placement client",
	Long:              "TalentMatrix manages a student's placement profile, job search, resume scans and AI career analysis against the TalentMatrix Gateway.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", server.ErrorMessage(err))
		os.Exit(1)
	}
}

// execute runs one command line and releases the application afterwards.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}
