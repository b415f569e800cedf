package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()

	dsn := "file:testdb_" + uuid.New().String() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, storage.Migrate(db))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return storage.New(db)
}

func seedCatalog(t *testing.T, s *storage.Store) {
	t.Helper()
	ctx := context.Background()

	study := &models.Room{Name: "Study"}
	require.NoError(t, s.CreateRoom(ctx, study))

	tall := models.NewBookshelf(study.ID, "Tall", models.ShapeRectangle)
	tall.X, tall.Rotation, tall.ShelfCount = 200, 90, 3
	require.NoError(t, s.CreateBookshelf(ctx, tall))

	corner := models.NewBookshelf(study.ID, "Corner", models.ShapeTriangle)
	require.NoError(t, s.CreateBookshelf(ctx, corner))

	rating := 5
	avg := 4.2
	books := []*models.Book{
		{Title: "Il deserto dei Tartari", Author: "Dino Buzzati", CatalogID: "vol-1", BookshelfID: tall.ID, ShelfNumber: 1, UserRating: &rating, AverageRating: &avg},
		{Title: "Marcovaldo", Author: "Italo Calvino", CatalogID: "vol-2", BookshelfID: tall.ID, ShelfNumber: 3},
	}
	for _, b := range books {
		require.NoError(t, s.CreateBook(ctx, b))
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := newStore(t)
	seedCatalog(t, src)
	ctx := context.Background()

	var buf bytes.Buffer
	n, err := Write(ctx, src, &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Corner", rows[0].Bookshelf)
	assert.Empty(t, rows[0].Title)

	dst := newStore(t)
	stats, err := Import(ctx, dst, rows)
	require.NoError(t, err)
	assert.Equal(t, Stats{Rooms: 1, Bookshelves: 2, Books: 2}, stats)

	room, err := dst.FindRoomByName(ctx, "Study")
	require.NoError(t, err)
	shelves, err := dst.ListBookshelves(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, shelves, 2)
	assert.Equal(t, models.ShapeTriangle, shelves[0].ShapeType)

	tall := shelves[1]
	assert.Equal(t, "Tall", tall.Name)
	assert.Equal(t, 200, tall.X)
	assert.Equal(t, 90, tall.Rotation)
	assert.Equal(t, 3, tall.ShelfCount)

	books, err := dst.ListBooksOnBookshelf(ctx, tall.ID)
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, "Il deserto dei Tartari", books[0].Title)
	require.NotNil(t, books[0].UserRating)
	assert.Equal(t, 5, *books[0].UserRating)
	require.NotNil(t, books[0].AverageRating)
	assert.InDelta(t, 4.2, *books[0].AverageRating, 1e-9)
	assert.Equal(t, 3, books[1].ShelfNumber)
	assert.Nil(t, books[1].UserRating)
}

func TestImportIntoSameCatalogSkipsDuplicates(t *testing.T) {
	store := newStore(t)
	seedCatalog(t, store)
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "catalog.parquet")
	_, err := WriteFile(ctx, store, path)
	require.NoError(t, err)

	rows, err := ReadFile(path)
	require.NoError(t, err)

	stats, err := Import(ctx, store, rows)
	require.NoError(t, err)
	assert.Equal(t, Stats{Skipped: 2}, stats)

	all, err := store.ListBooks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
