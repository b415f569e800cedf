package library

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/homelibrary/internal/bookurl"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/tempstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// scriptedAnalyzer returns per-image results keyed by image content.
type scriptedAnalyzer struct {
	results map[string][]models.BookRecord
	errs    map[string]error
	calls   int
}

func (a *scriptedAnalyzer) AnalyzeImage(_ context.Context, image []byte) ([]models.BookRecord, error) {
	a.calls++
	key := string(image)
	if err := a.errs[key]; err != nil {
		return nil, err
	}
	return a.results[key], nil
}

type stubResolver struct {
	record *models.BookRecord
	err    error
}

func (r stubResolver) Resolve(context.Context, string) (*models.BookRecord, error) {
	return r.record, r.err
}

type fixture struct {
	svc     *Service
	store   *storage.Store
	shelf   *models.Bookshelf
	uploads string
}

func setup(t *testing.T, analyzer Analyzer, urls URLResolver) fixture {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := storage.New(db)
	ctx := context.Background()
	room := &models.Room{Name: "Soggiorno"}
	require.NoError(t, store.CreateRoom(ctx, room))
	shelf := models.NewBookshelf(room.ID, "Libreria", models.ShapeRectangle)
	require.NoError(t, store.CreateBookshelf(ctx, shelf))

	dir := t.TempDir()
	uploads, err := tempstore.New(dir)
	require.NoError(t, err)

	svc := NewService(store, analyzer, urls, storage.NewPendingStore(time.Minute), uploads)
	return fixture{svc: svc, store: store, shelf: shelf, uploads: dir}
}

func TestImportImages(t *testing.T) {
	analyzer := &scriptedAnalyzer{
		results: map[string][]models.BookRecord{
			"photo-1": {
				{Title: "Memorie di Adriano", Author: "Marguerite Yourcenar", CatalogID: "adriano"},
				{Title: "Il Gattopardo", Author: "Giuseppe Tomasi di Lampedusa", CatalogID: "gattopardo"},
			},
			"photo-3": {
				{Title: "Memorie di Adriano", Author: "Marguerite Yourcenar", CatalogID: "adriano"},
				{Title: "Siddharta", Author: "Hermann Hesse", CatalogID: "siddharta"},
			},
		},
		errs: map[string]error{"photo-2": errors.New("model unavailable")},
	}
	f := setup(t, analyzer, nil)
	ctx := context.Background()

	res, err := f.svc.ImportImages(ctx, f.shelf.ID, 3, []Image{
		{Filename: "a.jpg", Data: []byte("photo-1")},
		{Filename: "b.jpg", Data: []byte("photo-2")},
		{Filename: "c.jpg", Data: []byte("photo-3")},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, analyzer.calls, "a failing image does not stop the rest")
	assert.Equal(t, []string{"b.jpg"}, res.FailedImages)
	require.Len(t, res.Created, 3)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "adriano", res.Skipped[0].CatalogID)
	for _, b := range res.Created {
		assert.Equal(t, 3, b.ShelfNumber)
		assert.Equal(t, f.shelf.ID, b.BookshelfID)
	}

	shelf, err := f.store.GetBookshelf(ctx, f.shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, shelf.ShelfCount, "shelf count raised to the upload shelf")

	entries, err := os.ReadDir(f.uploads)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary uploads removed")
}

func TestImportImagesUnknownBookshelf(t *testing.T) {
	analyzer := &scriptedAnalyzer{}
	f := setup(t, analyzer, nil)

	_, err := f.svc.ImportImages(context.Background(), 999, 1, []Image{{Filename: "a.jpg", Data: []byte("x")}})
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Zero(t, analyzer.calls)
}

func TestImportImagesClampsShelfNumber(t *testing.T) {
	f := setup(t, &scriptedAnalyzer{}, nil)

	res, err := f.svc.ImportImages(context.Background(), f.shelf.ID, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.ShelfNumber)
}

func TestResolveAndConfirm(t *testing.T) {
	record := &models.BookRecord{Title: "Il nome della rosa", Author: "Umberto Eco", CatalogID: "rosa"}
	f := setup(t, &scriptedAnalyzer{}, stubResolver{record: record})
	ctx := context.Background()

	p, err := f.svc.ResolveURL(ctx, "https://www.amazon.it/dp/881802731X/")
	require.NoError(t, err)
	assert.Equal(t, "rosa", p.Record.CatalogID)

	book, created, err := f.svc.Confirm(ctx, p.Token, f.shelf.ID, 2)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Il nome della rosa", book.Title)
	assert.Equal(t, 2, book.ShelfNumber)

	_, _, err = f.svc.Confirm(ctx, p.Token, f.shelf.ID, 2)
	assert.ErrorIs(t, err, ErrPendingNotFound, "tokens are single use")

	p2, err := f.svc.ResolveURL(ctx, "https://books.google.com/books?id=rosa")
	require.NoError(t, err)
	existing, created, err := f.svc.Confirm(ctx, p2.Token, f.shelf.ID, 5)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, book.ID, existing.ID)

	shelf, err := f.store.GetBookshelf(ctx, f.shelf.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, shelf.ShelfCount, "an existing book leaves the shelf count alone")
}

func TestConfirmKeepsTokenWhenBookshelfMissing(t *testing.T) {
	f := setup(t, &scriptedAnalyzer{}, stubResolver{record: &models.BookRecord{Title: "Dune", CatalogID: "dune"}})
	ctx := context.Background()

	p, err := f.svc.ResolveURL(ctx, "https://books.google.com/books?id=dune")
	require.NoError(t, err)

	_, _, err = f.svc.Confirm(ctx, p.Token, 404, 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, created, err := f.svc.Confirm(ctx, p.Token, f.shelf.ID, 1)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestResolveURLMiss(t *testing.T) {
	f := setup(t, &scriptedAnalyzer{}, stubResolver{err: bookurl.ErrUnsupportedSource})

	_, err := f.svc.ResolveURL(context.Background(), "https://example.com/book")
	assert.ErrorIs(t, err, bookurl.ErrNotFound)
}
