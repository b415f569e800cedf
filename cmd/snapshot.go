package cmd

import (
	"fmt"
	"log/slog"

	"github.com/lehigh-university-libraries/homelibrary/internal/export"
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "export <file.parquet>",
		Short:   "Write the catalog to a parquet snapshot",
		Example: `  homelibrary export library.parquet`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer closeStore()

			n, err := export.WriteFile(cmd.Context(), store, args[0])
			if err != nil {
				return err
			}
			slog.Info("Catalog exported", "path", args[0], "rows", n)
			return nil
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.parquet>",
		Short: "Merge a parquet snapshot into the catalog",
		Long: `Recreates the rooms, bookshelves and books of a snapshot. Rooms and
bookshelves are matched by name; books already on their bookshelf are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := export.ReadFile(args[0])
			if err != nil {
				return err
			}

			store, closeStore, err := openStore(cmd.Context(), a.cfg.Database)
			if err != nil {
				return err
			}
			defer closeStore()

			stats, err := export.Import(cmd.Context(), store, rows)
			if err != nil {
				return fmt.Errorf("import of %s stopped: %w", args[0], err)
			}
			return printJSON(cmd.OutOrStdout(), stats)
		},
	}
}
