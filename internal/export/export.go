// Package export writes the catalog to a parquet snapshot and reads it back.
//
// A snapshot holds one row per book. Bookshelves without books are kept as a
// single row with an empty title so their layout survives a round trip.
// Rooms without bookshelves are not exported.
package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/parquet-go/parquet-go"
)

// BookRow is one denormalized snapshot row.
type BookRow struct {
	Room          string `parquet:"room"`
	Bookshelf     string `parquet:"bookshelf"`
	ShapeType     string `parquet:"shape_type"`
	X             int64  `parquet:"x"`
	Y             int64  `parquet:"y"`
	Width         int64  `parquet:"width"`
	Height        int64  `parquet:"height"`
	Rotation      int64  `parquet:"rotation"`
	ShelfCount    int64  `parquet:"shelf_count"`
	ShelfNumber   int64  `parquet:"shelf_number"`
	Title         string `parquet:"title"`
	Author        string `parquet:"author"`
	Summary       string `parquet:"summary"`
	CatalogID     string `parquet:"catalog_id"`
	CoverURL      string `parquet:"cover_url"`
	PublishedDate string `parquet:"published_date"`

	AverageRating *float64 `parquet:"average_rating,optional"`
	UserRating    *int64   `parquet:"user_rating,optional"`
}

// Stats counts what an Import did.
type Stats struct {
	Rooms       int `json:"rooms"`
	Bookshelves int `json:"bookshelves"`
	Books       int `json:"books"`
	Skipped     int `json:"skipped"`
}

// Rows flattens the whole catalog into snapshot rows, ordered by room,
// bookshelf and shelf.
func Rows(ctx context.Context, store *storage.Store) ([]BookRow, error) {
	rooms, err := store.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	var rows []BookRow
	for _, room := range rooms {
		shelves, err := store.ListBookshelves(ctx, room.ID)
		if err != nil {
			return nil, err
		}
		for _, shelf := range shelves {
			books, err := store.ListBooksOnBookshelf(ctx, shelf.ID)
			if err != nil {
				return nil, err
			}
			if len(books) == 0 {
				rows = append(rows, shelfRow(room.Name, shelf))
				continue
			}
			for _, b := range books {
				rows = append(rows, bookRow(room.Name, shelf, b))
			}
		}
	}
	return rows, nil
}

func shelfRow(room string, s models.Bookshelf) BookRow {
	return BookRow{
		Room:       room,
		Bookshelf:  s.Name,
		ShapeType:  s.ShapeType,
		X:          int64(s.X),
		Y:          int64(s.Y),
		Width:      int64(s.Width),
		Height:     int64(s.Height),
		Rotation:   int64(s.Rotation),
		ShelfCount: int64(s.ShelfCount),
	}
}

func bookRow(room string, s models.Bookshelf, b models.Book) BookRow {
	row := shelfRow(room, s)
	row.ShelfNumber = int64(b.ShelfNumber)
	row.Title = b.Title
	row.Author = b.Author
	row.Summary = b.Summary
	row.CatalogID = b.CatalogID
	row.CoverURL = b.CoverURL
	row.PublishedDate = b.PublishedDate
	row.AverageRating = b.AverageRating
	if b.UserRating != nil {
		r := int64(*b.UserRating)
		row.UserRating = &r
	}
	return row
}

// Write writes a snapshot of the catalog to w and returns the row count.
func Write(ctx context.Context, store *storage.Store, w io.Writer) (int, error) {
	rows, err := Rows(ctx, store)
	if err != nil {
		return 0, err
	}

	pw := parquet.NewGenericWriter[BookRow](w)
	n, err := pw.Write(rows)
	if err != nil {
		return n, fmt.Errorf("failed to write parquet rows: %w", err)
	}
	if err := pw.Close(); err != nil {
		return n, fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return n, nil
}

// WriteFile writes a snapshot to path.
func WriteFile(ctx context.Context, store *storage.Store, path string) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	n, err := Write(ctx, store, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, cerr)
	}
	return n, err
}

// Read decodes every row of a snapshot.
func Read(r io.ReaderAt, size int64) ([]BookRow, error) {
	pf, err := parquet.OpenFile(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}
	slog.Debug("Snapshot opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[BookRow](pf)
	defer reader.Close()

	var out []BookRow
	batch := make([]BookRow, 128)
	for {
		n, err := reader.Read(batch)
		out = append(out, batch[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}
	return out, nil
}

// ReadFile decodes the snapshot at path.
func ReadFile(path string) ([]BookRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return Read(f, info.Size())
}

type shelfKey struct {
	room uint
	name string
}

// Import recreates snapshot rows in store. Rooms are matched by name and
// bookshelves by name within their room, so importing into a populated
// catalog merges into it. A book whose catalog id already sits on the target
// bookshelf is skipped.
func Import(ctx context.Context, store *storage.Store, rows []BookRow) (Stats, error) {
	var stats Stats
	rooms := map[string]uint{}
	shelves := map[shelfKey]uint{}

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		roomID, ok := rooms[row.Room]
		if !ok {
			id, created, err := ensureRoom(ctx, store, row.Room)
			if err != nil {
				return stats, fmt.Errorf("row %d: %w", i, err)
			}
			if created {
				stats.Rooms++
			}
			rooms[row.Room] = id
			roomID = id
		}

		key := shelfKey{room: roomID, name: row.Bookshelf}
		shelfID, ok := shelves[key]
		if !ok {
			id, created, err := ensureBookshelf(ctx, store, roomID, row)
			if err != nil {
				return stats, fmt.Errorf("row %d: %w", i, err)
			}
			if created {
				stats.Bookshelves++
			}
			shelves[key] = id
			shelfID = id
		}

		if row.Title == "" {
			continue
		}

		shelfNumber := max(int(row.ShelfNumber), 1)
		if _, err := store.EnsureShelfCount(ctx, shelfID, shelfNumber); err != nil {
			return stats, fmt.Errorf("row %d: %w", i, err)
		}

		if row.CatalogID != "" {
			_, err := store.FindBookByCatalogID(ctx, row.CatalogID, shelfID)
			if err == nil {
				stats.Skipped++
				continue
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return stats, fmt.Errorf("row %d: %w", i, err)
			}
		}

		book := models.NewBook(models.BookRecord{
			Title:         row.Title,
			Author:        row.Author,
			Summary:       row.Summary,
			PublishedDate: row.PublishedDate,
			CatalogID:     row.CatalogID,
			CoverURL:      row.CoverURL,
			AverageRating: row.AverageRating,
		}, shelfID, shelfNumber)
		if row.UserRating != nil {
			r := int(*row.UserRating)
			book.UserRating = &r
		}
		if err := store.CreateBook(ctx, book); err != nil {
			return stats, fmt.Errorf("row %d: %w", i, err)
		}
		stats.Books++
	}

	slog.Info("Snapshot imported",
		"rows", len(rows),
		"rooms", stats.Rooms,
		"bookshelves", stats.Bookshelves,
		"books", stats.Books,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

func ensureRoom(ctx context.Context, store *storage.Store, name string) (uint, bool, error) {
	room, err := store.FindRoomByName(ctx, name)
	if err == nil {
		return room.ID, false, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return 0, false, err
	}
	room = &models.Room{Name: name}
	if err := store.CreateRoom(ctx, room); err != nil {
		return 0, false, err
	}
	return room.ID, true, nil
}

func ensureBookshelf(ctx context.Context, store *storage.Store, roomID uint, row BookRow) (uint, bool, error) {
	existing, err := store.ListBookshelves(ctx, roomID)
	if err != nil {
		return 0, false, err
	}
	for _, s := range existing {
		if s.Name == row.Bookshelf {
			return s.ID, false, nil
		}
	}

	shape := row.ShapeType
	if shape == "" {
		shape = models.ShapeRectangle
	}
	shelf := models.NewBookshelf(roomID, row.Bookshelf, shape)
	shelf.X = int(row.X)
	shelf.Y = int(row.Y)
	shelf.Width = int(row.Width)
	shelf.Height = int(row.Height)
	shelf.Rotation = int(row.Rotation)
	shelf.ShelfCount = max(int(row.ShelfCount), 1)
	if err := store.CreateBookshelf(ctx, shelf); err != nil {
		return 0, false, err
	}
	return shelf.ID, true, nil
}
