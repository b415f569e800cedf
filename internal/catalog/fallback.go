package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lehigh-university-libraries/homelibrary/internal/models"
)

// PreciseQuery builds the title and author query tried first.
func PreciseQuery(title, author string) string {
	return "intitle:" + title + "+inauthor:" + author
}

// TitleQuery builds the title-only query tried when the precise one misses.
func TitleQuery(title string) string {
	return "intitle:" + title
}

// FindWithFallback searches by title and author, and retries once by title
// alone when that finds nothing. Errors other than ErrNotFound are returned
// without a retry.
func FindWithFallback(ctx context.Context, l Lookuper, title, author string) (*models.BookRecord, error) {
	record, err := l.Lookup(ctx, Request{
		Query:          PreciseQuery(title, author),
		FallbackTitle:  title,
		FallbackAuthor: author,
	})
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	slog.Debug("Precise catalog search missed, retrying by title", "title", title, "author", author)
	return l.Lookup(ctx, Request{
		Query:          TitleQuery(title),
		FallbackTitle:  title,
		FallbackAuthor: author,
	})
}
