package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/bookurl"
	"github.com/lehigh-university-libraries/homelibrary/internal/library"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/validation"
)

// URLAdder adds books from product URLs in two steps.
type URLAdder interface {
	ResolveURL(ctx context.Context, rawURL string) (storage.Pending, error)
	Confirm(ctx context.Context, token string, bookshelfID uint, shelfNumber int) (*models.Book, bool, error)
}

type BookHandler struct {
	store *storage.Store
	adder URLAdder
}

func NewBookHandler(store *storage.Store, adder URLAdder) *BookHandler {
	return &BookHandler{store: store, adder: adder}
}

func (h *BookHandler) RegisterRoutes(r *gin.RouterGroup) {
	books := r.Group("/books")
	{
		books.GET("", h.SearchBooks)
		books.POST("/resolve-url", h.ResolveURL)
		books.POST("/confirm", h.Confirm)
		books.GET("/:id", h.GetBook)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}

type BookDetailResponse struct {
	Book              models.Book      `json:"book"`
	Bookshelf         models.Bookshelf `json:"bookshelf"`
	BookshelvesInRoom []ShelfOption    `json:"bookshelves_in_room"`
	ShelfRange        []int            `json:"shelf_range"`
}

type UpdateBookRequest struct {
	Title         *string `json:"title,omitempty" binding:"omitempty,min=1"`
	Author        *string `json:"author,omitempty"`
	Summary       *string `json:"summary,omitempty"`
	CoverURL      *string `json:"cover_url,omitempty" binding:"omitempty,url"`
	PublishedDate *string `json:"published_date,omitempty"`
	BookshelfID   *uint   `json:"bookshelf_id,omitempty" binding:"omitempty,min=1"`
	ShelfNumber   *int    `json:"shelf_number,omitempty" binding:"omitempty,min=1"`
	UserRating    *int    `json:"user_rating,omitempty" binding:"omitempty,min=1,max=5"`
}

type ResolveURLRequest struct {
	URL string `json:"url" binding:"required,url"`
}

type ConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	BookshelfID uint   `json:"bookshelf_id" binding:"required"`
	ShelfNumber int    `json:"shelf_number" binding:"omitempty,min=1"`
}

type ConfirmResponse struct {
	Book    models.Book `json:"book"`
	Created bool        `json:"created"`
}

// SearchBooks godoc
// @Summary      Search books
// @Tags         books
// @Produce      json
// @Param        q       query     string  false  "Case-insensitive match on title or author"
// @Param        rating  query     int     false  "Minimum user rating"  minimum(1) maximum(5)
// @Success      200     {array}   models.Book
// @Failure      400     {object}  validation.ErrorResponse
// @Router       /books [get]
func (h *BookHandler) SearchBooks(c *gin.Context) {
	filter := storage.BookFilter{Query: c.Query("q")}
	if s := c.Query("rating"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_RATING", "rating must be an integer")
			return
		}
		filter.MinRating = v
	}

	books, err := h.store.SearchBooks(c.Request.Context(), filter)
	if err != nil {
		writeStoreError(c, err, "BOOK_NOT_FOUND", "book not found")
		return
	}
	c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary      Get a book with its placement options
// @Tags         books
// @Produce      json
// @Param        id   path      int  true  "Book ID"
// @Success      200  {object}  BookDetailResponse
// @Failure      404  {object}  validation.ErrorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	book, err := h.store.GetBook(ctx, id)
	if err != nil {
		writeStoreError(c, err, "BOOK_NOT_FOUND", "book not found")
		return
	}
	shelf, err := h.store.GetBookshelf(ctx, book.BookshelfID)
	if err != nil {
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}
	siblings, err := h.store.ListBookshelves(ctx, shelf.RoomID)
	if err != nil {
		writeStoreError(c, err, "ROOM_NOT_FOUND", "room not found")
		return
	}

	options := make([]ShelfOption, 0, len(siblings))
	for _, s := range siblings {
		options = append(options, ShelfOption{ID: s.ID, Name: s.Name})
	}

	c.JSON(http.StatusOK, BookDetailResponse{
		Book:              *book,
		Bookshelf:         *shelf,
		BookshelvesInRoom: options,
		ShelfRange:        shelfRange(shelf.ShelfCount),
	})
}

// UpdateBook godoc
// @Summary      Edit a book
// @Description  Only the fields present in the body change. shelf_number must exist on the target bookshelf.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Book ID"
// @Param        payload  body      UpdateBookRequest  true  "Fields to change"
// @Success      200      {object}  models.Book
// @Failure      400      {object}  validation.ErrorResponse
// @Failure      404      {object}  validation.ErrorResponse
// @Router       /books/{id} [patch]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req UpdateBookRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	book, err := h.store.GetBook(ctx, id)
	if err != nil {
		writeStoreError(c, err, "BOOK_NOT_FOUND", "book not found")
		return
	}

	applyBookUpdate(book, req)

	shelf, err := h.store.GetBookshelf(ctx, book.BookshelfID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(c, http.StatusBadRequest, "BOOKSHELF_NOT_FOUND", "bookshelf does not exist")
			return
		}
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}
	if book.ShelfNumber > shelf.ShelfCount {
		writeError(c, http.StatusBadRequest, "INVALID_SHELF", "shelf_number exceeds the bookshelf's shelf count")
		return
	}

	if err := h.store.SaveBook(ctx, book); err != nil {
		writeStoreError(c, err, "BOOK_NOT_FOUND", "book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

func applyBookUpdate(b *models.Book, req UpdateBookRequest) {
	if req.Title != nil {
		b.Title = *req.Title
	}
	if req.Author != nil {
		b.Author = *req.Author
	}
	if req.Summary != nil {
		b.Summary = *req.Summary
	}
	if req.CoverURL != nil {
		b.CoverURL = *req.CoverURL
	}
	if req.PublishedDate != nil {
		b.PublishedDate = *req.PublishedDate
	}
	if req.BookshelfID != nil {
		b.BookshelfID = *req.BookshelfID
	}
	if req.ShelfNumber != nil {
		b.ShelfNumber = *req.ShelfNumber
	}
	if req.UserRating != nil {
		b.UserRating = req.UserRating
	}
}

// DeleteBook godoc
// @Summary      Delete a book
// @Tags         books
// @Param        id   path  int  true  "Book ID"
// @Success      204
// @Failure      404  {object}  validation.ErrorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteBook(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "BOOK_NOT_FOUND", "book not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// ResolveURL godoc
// @Summary      Resolve a Google Books or Amazon URL
// @Description  Returns the resolved book and a token to pass to /books/confirm before it expires.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      ResolveURLRequest  true  "Product or catalog URL"
// @Success      200      {object}  storage.Pending
// @Failure      400      {object}  validation.ErrorResponse
// @Failure      404      {object}  validation.ErrorResponse
// @Router       /books/resolve-url [post]
func (h *BookHandler) ResolveURL(c *gin.Context) {
	var req ResolveURLRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	pending, err := h.adder.ResolveURL(c.Request.Context(), req.URL)
	if err != nil {
		if errors.Is(err, bookurl.ErrUnsupportedSource) {
			writeError(c, http.StatusNotFound, "UNSUPPORTED_SOURCE", "only Google Books and Amazon URLs are supported")
			return
		}
		if errors.Is(err, bookurl.ErrNotFound) {
			writeError(c, http.StatusNotFound, "BOOK_NOT_RESOLVED", "no book found for this URL")
			return
		}
		slog.Error("URL resolution failed", "url", req.URL, "err", err)
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}

	c.JSON(http.StatusOK, pending)
}

// Confirm godoc
// @Summary      Add a resolved book to a shelf
// @Description  If a book with the same catalog id already exists it is returned with created=false.
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        payload  body      ConfirmRequest  true  "Token and placement"
// @Success      201      {object}  ConfirmResponse
// @Success      200      {object}  ConfirmResponse
// @Failure      400      {object}  validation.ErrorResponse
// @Failure      404      {object}  validation.ErrorResponse
// @Router       /books/confirm [post]
func (h *BookHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	book, created, err := h.adder.Confirm(c.Request.Context(), req.Token, req.BookshelfID, req.ShelfNumber)
	if err != nil {
		if errors.Is(err, library.ErrPendingNotFound) {
			writeError(c, http.StatusNotFound, "TOKEN_NOT_FOUND", "pending book not found or expired")
			return
		}
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, ConfirmResponse{Book: *book, Created: created})
}
