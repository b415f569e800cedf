package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/homelibrary/internal/library"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestStore(t *testing.T) *storage.Store {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, storage.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return storage.New(db)
}

type fakeImporter struct {
	bookshelfID uint
	shelfNumber int
	images      []library.Image
	err         error
}

func (f *fakeImporter) ImportImages(_ context.Context, bookshelfID uint, shelfNumber int, images []library.Image) (*library.ImportResult, error) {
	f.bookshelfID = bookshelfID
	f.shelfNumber = shelfNumber
	f.images = images
	if f.err != nil {
		return nil, f.err
	}
	return &library.ImportResult{
		BookshelfID:  bookshelfID,
		ShelfNumber:  shelfNumber,
		Created:      []models.Book{},
		Skipped:      []models.BookRecord{},
		FailedImages: []string{},
	}, nil
}

type fakeAdder struct {
	ResolveFn func(ctx context.Context, rawURL string) (storage.Pending, error)
	ConfirmFn func(ctx context.Context, token string, bookshelfID uint, shelfNumber int) (*models.Book, bool, error)
}

func (f *fakeAdder) ResolveURL(ctx context.Context, rawURL string) (storage.Pending, error) {
	return f.ResolveFn(ctx, rawURL)
}

func (f *fakeAdder) Confirm(ctx context.Context, token string, bookshelfID uint, shelfNumber int) (*models.Book, bool, error) {
	return f.ConfirmFn(ctx, token, bookshelfID, shelfNumber)
}

func setupRouter(store *storage.Store, importer ImageImporter, adder URLAdder) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(RouterDeps{
		Store:          store,
		Importer:       importer,
		URLs:           adder,
		MaxUploadBytes: 1 << 20,
		StartTime:      time.Now(),
		Version:        "test",
	})
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "body: %s", w.Body.String())
	return v
}

func seedRoomAndShelf(t *testing.T, s *storage.Store) (*models.Room, *models.Bookshelf) {
	t.Helper()
	ctx := context.Background()

	room := &models.Room{Name: "Studio"}
	require.NoError(t, s.CreateRoom(ctx, room))
	shelf := models.NewBookshelf(room.ID, "Shelf A", models.ShapeRectangle)
	require.NoError(t, s.CreateBookshelf(ctx, shelf))
	return room, shelf
}

func seedBook(t *testing.T, s *storage.Store, shelfID uint, shelfNumber int, title, author, catalogID string) *models.Book {
	t.Helper()

	b := models.NewBook(models.BookRecord{Title: title, Author: author, CatalogID: catalogID}, shelfID, shelfNumber)
	require.NoError(t, s.CreateBook(context.Background(), b))
	return b
}
