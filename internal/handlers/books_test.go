package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lehigh-university-libraries/homelibrary/internal/bookurl"
	"github.com/lehigh-university-libraries/homelibrary/internal/library"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchBooks(t *testing.T) {
	store := setupTestStore(t)
	_, shelf := seedRoomAndShelf(t, store)
	ctx := context.Background()

	calvino := seedBook(t, store, shelf.ID, 1, "Le città invisibili", "Italo Calvino", "vol-1")
	calvino.UserRating = ptr(5)
	require.NoError(t, store.SaveBook(ctx, calvino))
	eco := seedBook(t, store, shelf.ID, 1, "Il pendolo di Foucault", "Umberto Eco", "vol-2")
	eco.UserRating = ptr(3)
	require.NoError(t, store.SaveBook(ctx, eco))
	seedBook(t, store, shelf.ID, 1, "Lessico famigliare", "Natalia Ginzburg", "vol-3")

	r := setupRouter(store, nil, nil)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"Il pendolo di Foucault", "Le città invisibili", "Lessico famigliare"}},
		{"author case-insensitive", "?q=CALVINO", []string{"Le città invisibili"}},
		{"title fragment", "?q=famig", []string{"Lessico famigliare"}},
		{"min rating", "?rating=4", []string{"Le città invisibili"}},
		{"query and rating", "?q=i&rating=3", []string{"Il pendolo di Foucault", "Le città invisibili"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodGet, "/api/books"+tc.query, nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var titles []string
			for _, b := range decode[[]models.Book](t, w) {
				titles = append(titles, b.Title)
			}
			assert.Equal(t, tc.want, titles)
		})
	}

	w := doJSON(t, r, http.MethodGet, "/api/books?rating=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func ptr[T any](v T) *T { return &v }

func TestGetBookDetail(t *testing.T) {
	store := setupTestStore(t)
	room, shelf := seedRoomAndShelf(t, store)
	other := models.NewBookshelf(room.ID, "Corner", models.ShapeSquare)
	require.NoError(t, store.CreateBookshelf(context.Background(), other))
	_, err := store.SetShelfCount(context.Background(), shelf.ID, 3)
	require.NoError(t, err)
	book := seedBook(t, store, shelf.ID, 2, "Gomorra", "Roberto Saviano", "vol-1")
	r := setupRouter(store, nil, nil)

	w := doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/books/%d", book.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got := decode[BookDetailResponse](t, w)
	assert.Equal(t, "Gomorra", got.Book.Title)
	assert.Equal(t, shelf.ID, got.Bookshelf.ID)
	assert.Equal(t, []int{1, 2, 3}, got.ShelfRange)
	assert.Equal(t, []ShelfOption{{ID: other.ID, Name: "Corner"}, {ID: shelf.ID, Name: "Shelf A"}}, got.BookshelvesInRoom)

	w = doJSON(t, r, http.MethodGet, "/api/books/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateBook(t *testing.T) {
	store := setupTestStore(t)
	room, shelf := seedRoomAndShelf(t, store)
	target := models.NewBookshelf(room.ID, "Hallway", models.ShapeRectangle)
	target.ShelfCount = 2
	require.NoError(t, store.CreateBookshelf(context.Background(), target))
	book := seedBook(t, store, shelf.ID, 1, "Il Gattopardo", "Tomasi di Lampedusa", "vol-1")
	r := setupRouter(store, nil, nil)
	path := fmt.Sprintf("/api/books/%d", book.ID)

	w := doJSON(t, r, http.MethodPatch, path, map[string]any{
		"author":       "Giuseppe Tomasi di Lampedusa",
		"user_rating":  4,
		"bookshelf_id": target.ID,
		"shelf_number": 2,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	got, err := store.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Il Gattopardo", got.Title)
	assert.Equal(t, "Giuseppe Tomasi di Lampedusa", got.Author)
	require.NotNil(t, got.UserRating)
	assert.Equal(t, 4, *got.UserRating)
	assert.Equal(t, target.ID, got.BookshelfID)
	assert.Equal(t, 2, got.ShelfNumber)
}

func TestUpdateBookRejects(t *testing.T) {
	store := setupTestStore(t)
	_, shelf := seedRoomAndShelf(t, store)
	book := seedBook(t, store, shelf.ID, 1, "Il Gattopardo", "Tomasi di Lampedusa", "vol-1")
	r := setupRouter(store, nil, nil)
	path := fmt.Sprintf("/api/books/%d", book.ID)

	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{"rating above 5", map[string]any{"user_rating": 6}, "VALIDATION_FAILED"},
		{"rating below 1", map[string]any{"user_rating": 0}, "VALIDATION_FAILED"},
		{"empty title", map[string]any{"title": ""}, "VALIDATION_FAILED"},
		{"shelf beyond count", map[string]any{"shelf_number": 2}, "INVALID_SHELF"},
		{"unknown bookshelf", map[string]any{"bookshelf_id": 999}, "BOOKSHELF_NOT_FOUND"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPatch, path, tc.body)
			require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Equal(t, tc.wantCode, decode[validation.ErrorResponse](t, w).Code)
		})
	}

	got, err := store.GetBook(context.Background(), book.ID)
	require.NoError(t, err)
	assert.Nil(t, got.UserRating)
	assert.Equal(t, "Il Gattopardo", got.Title)
	assert.Equal(t, shelf.ID, got.BookshelfID)
	assert.Equal(t, 1, got.ShelfNumber)
}

func TestDeleteBook(t *testing.T) {
	store := setupTestStore(t)
	_, shelf := seedRoomAndShelf(t, store)
	book := seedBook(t, store, shelf.ID, 1, "Gomorra", "Roberto Saviano", "vol-1")
	r := setupRouter(store, nil, nil)
	path := fmt.Sprintf("/api/books/%d", book.ID)

	w := doJSON(t, r, http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveURL(t *testing.T) {
	store := setupTestStore(t)
	expires := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	adder := &fakeAdder{
		ResolveFn: func(_ context.Context, rawURL string) (storage.Pending, error) {
			switch rawURL {
			case "https://www.amazon.it/dp/881802731X/":
				return storage.Pending{
					Token:     "tok-1",
					Record:    models.BookRecord{Title: "Il sistema periodico", CatalogID: "vol-9"},
					ExpiresAt: expires,
				}, nil
			case "https://example.com/book":
				return storage.Pending{}, fmt.Errorf("%w: example.com", bookurl.ErrUnsupportedSource)
			default:
				return storage.Pending{}, bookurl.ErrNotFound
			}
		},
	}
	r := setupRouter(store, nil, adder)

	w := doJSON(t, r, http.MethodPost, "/api/books/resolve-url", map[string]string{"url": "https://www.amazon.it/dp/881802731X/"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got := decode[storage.Pending](t, w)
	assert.Equal(t, "tok-1", got.Token)
	assert.Equal(t, "vol-9", got.Record.CatalogID)
	assert.True(t, expires.Equal(got.ExpiresAt))

	tests := []struct {
		name     string
		body     map[string]string
		status   int
		wantCode string
	}{
		{"unresolved", map[string]string{"url": "https://books.google.com/books?id=zzz"}, http.StatusNotFound, "BOOK_NOT_RESOLVED"},
		{"unsupported", map[string]string{"url": "https://example.com/book"}, http.StatusNotFound, "UNSUPPORTED_SOURCE"},
		{"not a url", map[string]string{"url": "amazon"}, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"missing url", map[string]string{}, http.StatusBadRequest, "VALIDATION_FAILED"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/books/resolve-url", tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			assert.Equal(t, tc.wantCode, decode[validation.ErrorResponse](t, w).Code)
		})
	}
}

func TestConfirm(t *testing.T) {
	store := setupTestStore(t)
	book := models.Book{ID: 12, Title: "Il sistema periodico", CatalogID: "vol-9", BookshelfID: 3, ShelfNumber: 2}

	var gotShelf uint
	var gotNumber int
	adder := &fakeAdder{
		ConfirmFn: func(_ context.Context, token string, bookshelfID uint, shelfNumber int) (*models.Book, bool, error) {
			gotShelf, gotNumber = bookshelfID, shelfNumber
			switch token {
			case "new":
				return &book, true, nil
			case "dup":
				return &book, false, nil
			case "ghost-shelf":
				return nil, false, fmt.Errorf("bookshelf %d %w", bookshelfID, storage.ErrNotFound)
			default:
				return nil, false, library.ErrPendingNotFound
			}
		},
	}
	r := setupRouter(store, nil, adder)

	w := doJSON(t, r, http.MethodPost, "/api/books/confirm", map[string]any{"token": "new", "bookshelf_id": 3, "shelf_number": 2})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[ConfirmResponse](t, w)
	assert.True(t, resp.Created)
	assert.Equal(t, uint(12), resp.Book.ID)
	assert.Equal(t, uint(3), gotShelf)
	assert.Equal(t, 2, gotNumber)

	w = doJSON(t, r, http.MethodPost, "/api/books/confirm", map[string]any{"token": "dup", "bookshelf_id": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[ConfirmResponse](t, w).Created)

	w = doJSON(t, r, http.MethodPost, "/api/books/confirm", map[string]any{"token": "expired", "bookshelf_id": 3})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TOKEN_NOT_FOUND", decode[validation.ErrorResponse](t, w).Code)

	w = doJSON(t, r, http.MethodPost, "/api/books/confirm", map[string]any{"token": "ghost-shelf", "bookshelf_id": 99})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "BOOKSHELF_NOT_FOUND", decode[validation.ErrorResponse](t, w).Code)

	w = doJSON(t, r, http.MethodPost, "/api/books/confirm", map[string]any{"bookshelf_id": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
