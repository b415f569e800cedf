// Package library ties book identification to the catalog store: importing
// shelf photos and adding books from product URLs.
package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/tempstore"
)

// ErrPendingNotFound is returned by Confirm for unknown or expired tokens.
var ErrPendingNotFound = errors.New("pending book not found or expired")

// Analyzer finds catalogued books in a shelf photo.
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte) ([]models.BookRecord, error)
}

// URLResolver turns a product or catalog URL into a book record.
type URLResolver interface {
	Resolve(ctx context.Context, rawURL string) (*models.BookRecord, error)
}

type Service struct {
	store    *storage.Store
	analyzer Analyzer
	urls     URLResolver
	pending  *storage.PendingStore
	uploads  *tempstore.Store
}

func NewService(store *storage.Store, analyzer Analyzer, urls URLResolver, pending *storage.PendingStore, uploads *tempstore.Store) *Service {
	return &Service{
		store:    store,
		analyzer: analyzer,
		urls:     urls,
		pending:  pending,
		uploads:  uploads,
	}
}

// Image is one uploaded shelf photo.
type Image struct {
	Filename string
	Data     []byte
}

// ImportResult summarises an ImportImages call.
type ImportResult struct {
	BookshelfID  uint                `json:"bookshelf_id"`
	ShelfNumber  int                 `json:"shelf_number"`
	Created      []models.Book       `json:"created"`
	Skipped      []models.BookRecord `json:"skipped"`
	FailedImages []string            `json:"failed_images"`
}

// ImportImages identifies the books in each photo and places them on the
// given shelf. The bookshelf grows to shelfNumber shelves if it has fewer. A
// book already on this bookshelf with the same catalog id is skipped. A
// failing image is logged and reported, and the remaining images still run.
func (s *Service) ImportImages(ctx context.Context, bookshelfID uint, shelfNumber int, images []Image) (*ImportResult, error) {
	if shelfNumber < 1 {
		shelfNumber = 1
	}
	if _, err := s.store.EnsureShelfCount(ctx, bookshelfID, shelfNumber); err != nil {
		return nil, err
	}

	result := &ImportResult{
		BookshelfID:  bookshelfID,
		ShelfNumber:  shelfNumber,
		Created:      []models.Book{},
		Skipped:      []models.BookRecord{},
		FailedImages: []string{},
	}

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.importImage(ctx, bookshelfID, shelfNumber, img, result); err != nil {
			slog.Error("Unable to process shelf image", "filename", img.Filename, "bookshelf_id", bookshelfID, "err", err)
			result.FailedImages = append(result.FailedImages, img.Filename)
			continue
		}
	}

	slog.Info("Shelf images imported",
		"bookshelf_id", bookshelfID,
		"shelf_number", shelfNumber,
		"images", len(images),
		"created", len(result.Created),
		"skipped", len(result.Skipped),
		"failed", len(result.FailedImages),
	)
	return result, nil
}

func (s *Service) importImage(ctx context.Context, bookshelfID uint, shelfNumber int, img Image, result *ImportResult) error {
	var records []models.BookRecord
	err := s.uploads.WithFile(img.Filename, img.Data, func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read upload: %w", err)
		}
		records, err = s.analyzer.AnalyzeImage(ctx, data)
		return err
	})
	if err != nil {
		return err
	}

	for _, rec := range records {
		if rec.CatalogID == "" {
			continue
		}
		_, err := s.store.FindBookByCatalogID(ctx, rec.CatalogID, bookshelfID)
		if err == nil {
			result.Skipped = append(result.Skipped, rec)
			continue
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		book := models.NewBook(rec, bookshelfID, shelfNumber)
		if err := s.store.CreateBook(ctx, book); err != nil {
			return err
		}
		result.Created = append(result.Created, *book)
	}
	return nil
}

// ResolveURL resolves rawURL and holds the record until Confirm is called
// with the returned token.
func (s *Service) ResolveURL(ctx context.Context, rawURL string) (storage.Pending, error) {
	record, err := s.urls.Resolve(ctx, rawURL)
	if err != nil {
		return storage.Pending{}, err
	}
	p := s.pending.Put(*record)
	slog.Info("Book resolved from URL", "catalog_id", record.CatalogID, "title", record.Title, "expires_at", p.ExpiresAt)
	return p, nil
}

// Confirm places a pending record on a shelf. If a book with the same
// catalog id already exists anywhere, it is returned with created=false.
func (s *Service) Confirm(ctx context.Context, token string, bookshelfID uint, shelfNumber int) (*models.Book, bool, error) {
	p, ok := s.pending.Get(token)
	if !ok {
		return nil, false, ErrPendingNotFound
	}
	if shelfNumber < 1 {
		shelfNumber = 1
	}

	if _, err := s.store.GetBookshelf(ctx, bookshelfID); err != nil {
		return nil, false, err
	}

	if p.Record.CatalogID != "" {
		existing, err := s.store.FindBookByCatalogID(ctx, p.Record.CatalogID, 0)
		if err == nil {
			s.pending.Delete(token)
			return existing, false, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, false, err
		}
	}

	if _, err := s.store.EnsureShelfCount(ctx, bookshelfID, shelfNumber); err != nil {
		return nil, false, err
	}

	book := models.NewBook(p.Record, bookshelfID, shelfNumber)
	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, false, err
	}
	s.pending.Delete(token)
	return book, true, nil
}
