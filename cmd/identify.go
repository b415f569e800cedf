package cmd

import (
	"log/slog"

	"github.com/lehigh-university-libraries/homelibrary/internal/images"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/spf13/cobra"
)

func newIdentifyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "identify <image|url>...",
		Short: "Identify the books in shelf photos without storing them",
		Example: `  homelibrary identify shelf.jpg
  HOMELIBRARY_VISION_PROVIDER=ollama homelibrary identify top.jpg https://example.com/bottom.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, err := newAnalyzer(a.cfg, newLookuper(a.cfg))
			if err != nil {
				return err
			}

			fetcher := images.NewFetcher(a.cfg.Uploads.MaxBytes)
			records := []models.BookRecord{}
			seen := map[string]bool{}
			for _, path := range args {
				data, err := fetcher.Load(cmd.Context(), path)
				if err != nil {
					return err
				}
				found, err := analyzer.AnalyzeImage(cmd.Context(), data)
				if err != nil {
					slog.Error("Unable to analyze image", "path", path, "err", err)
					continue
				}
				slog.Info("Image analyzed", "path", path, "books", len(found))
				for _, r := range found {
					if seen[r.CatalogID] {
						continue
					}
					seen[r.CatalogID] = true
					records = append(records, r)
				}
			}

			return writeRecords(cmd.OutOrStdout(), records)
		},
	}
}
