// Package detection identifies books in a bookshelf photo.
//
// A vision model reads the spines and returns title/author candidates. Each
// usable candidate is resolved against the catalog with the two-stage search,
// and the results are deduplicated by catalog id.
package detection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/homelibrary/internal/catalog"
	"github.com/lehigh-university-libraries/homelibrary/internal/config"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/providers"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// unreadable is the placeholder the model uses for a field it cannot read.
const unreadable = "Unknown"

// ErrMalformedOutput is returned when the model reply is not a candidate list.
var ErrMalformedOutput = errors.New("malformed model output")

type Analyzer struct {
	provider    providers.Provider
	catalog     catalog.Lookuper
	model       string
	temperature float64
	schema      *jsonschema.Schema
}

// NewAnalyzer builds an analyzer. l should apply the cover fallback, as
// catalog.Resolver does.
func NewAnalyzer(p providers.Provider, l catalog.Lookuper, cfg config.Vision) (*Analyzer, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("candidates.json", strings.NewReader(candidateSchema)); err != nil {
		return nil, fmt.Errorf("failed to load candidate schema: %w", err)
	}
	schema, err := compiler.Compile("candidates.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile candidate schema: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}

	return &Analyzer{
		provider:    p,
		catalog:     l,
		model:       model,
		temperature: cfg.Temperature,
		schema:      schema,
	}, nil
}

// Analyze returns the catalogued books found in image, in the order the model
// listed them. A failed model call or unusable reply yields no books.
func (a *Analyzer) Analyze(ctx context.Context, image []byte) []models.BookRecord {
	records, err := a.AnalyzeImage(ctx, image)
	if err != nil {
		slog.Error("Shelf image analysis failed", "err", err)
		return nil
	}
	return records
}

// AnalyzeImage is Analyze with the model failure reported to the caller.
// Catalog misses are never errors.
func (a *Analyzer) AnalyzeImage(ctx context.Context, image []byte) ([]models.BookRecord, error) {
	candidates, err := a.Candidates(ctx, image)
	if err != nil {
		return nil, err
	}
	return a.Resolve(ctx, candidates), nil
}

// Candidates asks the model for the title/author pairs visible in image.
func (a *Analyzer) Candidates(ctx context.Context, image []byte) ([]models.Candidate, error) {
	text, err := a.provider.ExtractText(ctx, providers.Config{
		Model:       a.model,
		Temperature: a.temperature,
		Prompt:      shelfPrompt,
		Image:       image,
	})
	if err != nil {
		return nil, fmt.Errorf("vision model call failed: %w", err)
	}
	slog.Debug("Vision model reply", "model", a.model, "text", text)

	return a.parseCandidates(text)
}

func (a *Analyzer) parseCandidates(text string) ([]models.Candidate, error) {
	payload := stripCodeFences(text)

	var doc any
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if err := a.schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	items, _ := doc.([]any)
	candidates := make([]models.Candidate, 0, len(items))
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			slog.Debug("Skipping non-object candidate", "item", item)
			continue
		}
		candidates = append(candidates, models.Candidate{
			Title:  stringField(fields, "title"),
			Author: stringField(fields, "author"),
		})
	}
	return candidates, nil
}

// stringField returns fields[key] when it is a string and "" otherwise.
func stringField(fields map[string]any, key string) string {
	v, _ := fields[key].(string)
	return v
}

// Resolve looks every usable candidate up in the catalog and drops misses and
// repeated catalog ids.
func (a *Analyzer) Resolve(ctx context.Context, candidates []models.Candidate) []models.BookRecord {
	records := make([]models.BookRecord, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, c := range candidates {
		if !resolvable(c) {
			slog.Debug("Skipping incomplete candidate", "title", c.Title, "author", c.Author)
			continue
		}

		record, err := catalog.FindWithFallback(ctx, a.catalog, c.Title, c.Author)
		if err != nil {
			slog.Info("No catalog match for candidate", "title", c.Title, "author", c.Author)
			continue
		}
		if record.CatalogID == "" {
			continue
		}
		if _, dup := seen[record.CatalogID]; dup {
			slog.Debug("Dropping duplicate catalog match", "catalog_id", record.CatalogID, "title", c.Title)
			continue
		}
		seen[record.CatalogID] = struct{}{}
		records = append(records, *record)
	}
	return records
}

// resolvable reports whether a candidate carries both a readable title and a
// readable author. Author-only candidates are not searched.
func resolvable(c models.Candidate) bool {
	title := strings.TrimSpace(c.Title)
	author := strings.TrimSpace(c.Author)
	return title != "" && author != "" && title != unreadable && author != unreadable
}

// stripCodeFences removes a ``` or ```json fence from either end of s.
func stripCodeFences(s string) string {
	body := strings.TrimSpace(s)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimLeft(body[3:], " \t\r\n")
		if len(body) >= 4 && strings.EqualFold(body[:4], "json") {
			body = body[4:]
		}
	}
	body = strings.TrimSpace(body)
	if strings.HasSuffix(body, "```") {
		body = body[:len(body)-3]
	}
	return strings.TrimSpace(body)
}
