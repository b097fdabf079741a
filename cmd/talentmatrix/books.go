package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/talentmatrix/internal/store"
)

var booksCmd = &cobra.Command{
	Use:   "books [QUERY]",
	Short: "Search books",
	Long:  "Search books. Without a query the first profile skill is used; --reset searches the general Technology list.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runBooks,
}

var booksReset bool

func init() {
	booksCmd.Flags().BoolVar(&booksReset, "reset", false, "Show the general Technology list")
	rootCmd.AddCommand(booksCmd)
}

func runBooks(cmd *cobra.Command, args []string) error {
	if err := requireSession(); err != nil {
		return err
	}
	ctx := cmd.Context()

	query := strings.TrimSpace(strings.Join(args, " "))
	switch {
	case booksReset:
		if _, err := app.store.Books.ResetSearch(ctx); err != nil {
			return err
		}
	default:
		if query == "" {
			if err := loadProfile(cmd); err != nil {
				return err
			}
			query = store.DefaultBookQuery(app.store.Profile.Get())
		}
		if _, err := app.store.Books.Search(ctx, query); err != nil {
			return err
		}
	}

	st := app.store.Books.State()
	app.printer.PrintBooks(st.Query, st.Books)
	return nil
}
