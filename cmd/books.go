package cmd

import (
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/spf13/cobra"
)

func newBooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List and search the catalog",
	}
	cmd.AddCommand(newBooksListCmd(a), newBooksSearchCmd(a))
	return cmd
}

func newBooksListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every book",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer closeStore()

			books, err := store.ListBooks(cmd.Context())
			if err != nil {
				return err
			}
			return writeBooks(cmd.OutOrStdout(), books)
		},
	}
}

func newBooksSearchCmd(a *app) *cobra.Command {
	var minRating int

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search books by title or author",
		Example: `  homelibrary books search calvino
  homelibrary books search --rating 4`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := storage.BookFilter{MinRating: minRating}
			if len(args) == 1 {
				filter.Query = args[0]
			}

			store, closeStore, err := openStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer closeStore()

			books, err := store.SearchBooks(cmd.Context(), filter)
			if err != nil {
				return err
			}
			return writeBooks(cmd.OutOrStdout(), books)
		},
	}

	cmd.Flags().IntVarP(&minRating, "rating", "r", 0, "Minimum user rating (1-5)")

	return cmd
}
