package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/observability"
	"github.com/jonathan/talentmatrix/internal/types"
)

var themeCmd = &cobra.Command{
	Use:       "theme [light|dark|toggle]",
	Short:     "Show or change the colour theme",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"light", "dark", "toggle"},
	RunE:      runTheme,
}

func init() {
	rootCmd.AddCommand(themeCmd)
}

func runTheme(cmd *cobra.Command, args []string) error {
	theme := app.printer.Theme()
	if len(args) == 0 {
		app.printer.PrintMessage("Theme", string(theme))
		return nil
	}

	if args[0] == "toggle" {
		theme = theme.Toggle()
	} else {
		parsed, err := types.ParseTheme(args[0])
		if err != nil {
			return err
		}
		theme = parsed
	}
	if err := app.db.SetTheme(cmd.Context(), theme); err != nil {
		return err
	}

	app.printer = observability.NewPrinter(cmd.OutOrStdout(), theme)
	app.printer.PrintMessage("Theme", string(theme))
	return nil
}
