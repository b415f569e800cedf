package cmd

import (
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/spf13/cobra"
)

func newResolveURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-url <url>",
		Short: "Look up the book behind a Google Books or Amazon URL",
		Example: `  homelibrary resolve-url https://www.amazon.it/dp/881802731X/
  homelibrary resolve-url "https://books.google.it/books?id=Ac8uAAAAYAAJ"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver := newURLResolver(a.cfg, newLookuper(a.cfg))
			record, err := resolver.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeRecords(cmd.OutOrStdout(), []models.BookRecord{*record})
		},
	}
}
