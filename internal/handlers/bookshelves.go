package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/library"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/validation"
)

// ImageImporter identifies and stores the books in shelf photos.
type ImageImporter interface {
	ImportImages(ctx context.Context, bookshelfID uint, shelfNumber int, images []library.Image) (*library.ImportResult, error)
}

type BookshelfHandler struct {
	store          *storage.Store
	importer       ImageImporter
	maxUploadBytes int64
}

func NewBookshelfHandler(store *storage.Store, importer ImageImporter, maxUploadBytes int64) *BookshelfHandler {
	return &BookshelfHandler{store: store, importer: importer, maxUploadBytes: maxUploadBytes}
}

func (h *BookshelfHandler) RegisterRoutes(r *gin.RouterGroup) {
	shelves := r.Group("/bookshelves")
	{
		shelves.GET("/:id/books", h.ListBooks)
		shelves.POST("/:id/shelf-count", h.UpdateShelfCount)
		shelves.POST("/:id/images", h.UploadImages)
	}
}

// Shelf is one numbered shelf and the books on it.
type Shelf struct {
	Number int           `json:"shelf_number"`
	Books  []models.Book `json:"books"`
}

type BookshelfBooksResponse struct {
	Bookshelf models.Bookshelf `json:"bookshelf"`
	Shelves   []Shelf          `json:"shelves"`
	// Books lists every book on the bookshelf ordered by title.
	Books []models.Book `json:"books"`
}

type ShelfCountRequest struct {
	ShelfCount int `json:"shelf_count"`
}

// ListBooks godoc
// @Summary      List the books of a bookshelf grouped by shelf
// @Tags         bookshelves
// @Produce      json
// @Param        id   path      int  true  "Bookshelf ID"
// @Success      200  {object}  BookshelfBooksResponse
// @Failure      404  {object}  validation.ErrorResponse
// @Router       /bookshelves/{id}/books [get]
func (h *BookshelfHandler) ListBooks(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	shelf, err := h.store.GetBookshelf(ctx, id)
	if err != nil {
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}
	books, err := h.store.ListBooksOnBookshelf(ctx, id)
	if err != nil {
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}

	c.JSON(http.StatusOK, groupByShelf(*shelf, books))
}

func groupByShelf(shelf models.Bookshelf, books []models.Book) BookshelfBooksResponse {
	byShelf := make(map[int][]models.Book, shelf.ShelfCount)
	for _, b := range books {
		byShelf[b.ShelfNumber] = append(byShelf[b.ShelfNumber], b)
	}

	shelves := make([]Shelf, 0, shelf.ShelfCount)
	for _, n := range shelfRange(shelf.ShelfCount) {
		onShelf := byShelf[n]
		if onShelf == nil {
			onShelf = []models.Book{}
		}
		shelves = append(shelves, Shelf{Number: n, Books: onShelf})
	}

	all := append([]models.Book{}, books...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Title < all[j].Title })

	return BookshelfBooksResponse{Bookshelf: shelf, Shelves: shelves, Books: all}
}

// UpdateShelfCount godoc
// @Summary      Set the number of shelves of a bookshelf
// @Description  Values below 1 are ignored and the bookshelf is returned unchanged.
// @Tags         bookshelves
// @Accept       json
// @Produce      json
// @Param        id       path      int                true  "Bookshelf ID"
// @Param        payload  body      ShelfCountRequest  true  "New shelf count"
// @Success      200      {object}  models.Bookshelf
// @Failure      400      {object}  validation.ErrorResponse
// @Failure      404      {object}  validation.ErrorResponse
// @Router       /bookshelves/{id}/shelf-count [post]
func (h *BookshelfHandler) UpdateShelfCount(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req ShelfCountRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}
	ctx := c.Request.Context()

	var (
		shelf *models.Bookshelf
		err   error
	)
	if req.ShelfCount >= 1 {
		shelf, err = h.store.SetShelfCount(ctx, id, req.ShelfCount)
	} else {
		shelf, err = h.store.GetBookshelf(ctx, id)
	}
	if err != nil {
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}
	c.JSON(http.StatusOK, shelf)
}
