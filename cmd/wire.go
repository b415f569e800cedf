package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/lehigh-university-libraries/homelibrary/internal/bookurl"
	"github.com/lehigh-university-libraries/homelibrary/internal/catalog"
	"github.com/lehigh-university-libraries/homelibrary/internal/config"
	"github.com/lehigh-university-libraries/homelibrary/internal/covers"
	"github.com/lehigh-university-libraries/homelibrary/internal/detection"
	"github.com/lehigh-university-libraries/homelibrary/internal/gemini"
	"github.com/lehigh-university-libraries/homelibrary/internal/ollama"
	"github.com/lehigh-university-libraries/homelibrary/internal/openai"
	"github.com/lehigh-university-libraries/homelibrary/internal/providers"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
)

func newProvider(cfg config.Vision) (providers.Provider, error) {
	httpClient := &http.Client{Timeout: cfg.Timeout}

	switch cfg.Provider {
	case "gemini":
		return gemini.New(cfg.GeminiAPIKey), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, httpClient), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %q", cfg.Provider)
	}
}

// newLookuper returns the catalog client wrapped with the cover fallback
// when it is enabled.
func newLookuper(cfg *config.Config) catalog.Lookuper {
	client := catalog.NewClient(cfg.Catalog, nil)

	var finder catalog.CoverFinder
	if cfg.Covers.Enabled {
		finder = covers.NewGoogleImages(cfg.Covers, nil)
	}
	return catalog.NewResolver(client, finder)
}

func newAnalyzer(cfg *config.Config, l catalog.Lookuper) (*detection.Analyzer, error) {
	p, err := newProvider(cfg.Vision)
	if err != nil {
		return nil, err
	}
	return detection.NewAnalyzer(p, l, cfg.Vision)
}

func newURLResolver(cfg *config.Config, l catalog.Lookuper) *bookurl.Resolver {
	return bookurl.NewResolver(l, &http.Client{Timeout: cfg.Catalog.Timeout}, cfg.Covers.UserAgent)
}

func openStore(ctx context.Context, cfg config.Database) (*storage.Store, func(), error) {
	db, err := storage.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return storage.New(db), closeFn, nil
}
