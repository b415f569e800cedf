package catalog

import (
	"context"
	"log/slog"

	"github.com/lehigh-university-libraries/homelibrary/internal/models"
)

// CoverFinder finds a cover image URL for a title.
type CoverFinder interface {
	FindCover(ctx context.Context, title string) (string, error)
}

// Resolver looks books up in the catalog and fills in a missing cover from a
// CoverFinder.
type Resolver struct {
	lookup Lookuper
	covers CoverFinder
}

// NewResolver wraps l. A nil covers disables the cover fallback.
func NewResolver(l Lookuper, covers CoverFinder) *Resolver {
	return &Resolver{lookup: l, covers: covers}
}

// Lookup resolves req and, when the record has a title but no cover, asks the
// cover finder once. A cover miss leaves the record otherwise untouched.
func (r *Resolver) Lookup(ctx context.Context, req Request) (*models.BookRecord, error) {
	record, err := r.lookup.Lookup(ctx, req)
	if err != nil {
		return nil, err
	}
	if r.covers == nil || record.CoverURL != "" || record.Title == "" || record.Title == unknownTitle {
		return record, nil
	}

	cover, err := r.covers.FindCover(ctx, record.Title)
	if err != nil {
		slog.Debug("No fallback cover found", "title", record.Title, "err", err)
		return record, nil
	}
	record.CoverURL = cover
	return record, nil
}
