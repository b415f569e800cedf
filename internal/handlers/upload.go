package handlers

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/library"
)

// UploadImages godoc
// @Summary      Identify books in shelf photos
// @Description  Each image is analysed independently. Books are placed on shelf_number (default 1), and the bookshelf grows to that many shelves if needed. Books already on the bookshelf are skipped.
// @Tags         bookshelves
// @Accept       multipart/form-data
// @Produce      json
// @Param        id            path      int     true   "Bookshelf ID"
// @Param        image         formData  file    true   "Shelf photo (repeatable)"
// @Param        shelf_number  formData  int     false  "Target shelf"
// @Success      200           {object}  library.ImportResult
// @Failure      400           {object}  validation.ErrorResponse
// @Failure      404           {object}  validation.ErrorResponse
// @Router       /bookshelves/{id}/images [post]
func (h *BookshelfHandler) UploadImages(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_FORM", "failed to read multipart form: "+err.Error())
		return
	}
	files := form.File["image"]
	if len(files) == 0 {
		writeError(c, http.StatusBadRequest, "NO_IMAGES", "at least one image is required")
		return
	}

	shelfNumber, err := strconv.Atoi(c.PostForm("shelf_number"))
	if err != nil || shelfNumber < 1 {
		shelfNumber = 1
	}

	images := make([]library.Image, 0, len(files))
	for _, fh := range files {
		data, err := h.readUpload(fh)
		if err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_IMAGE", err.Error())
			return
		}
		images = append(images, library.Image{Filename: fh.Filename, Data: data})
	}

	slog.Info("Importing shelf images", "bookshelf_id", id, "shelf_number", shelfNumber, "images", len(images))
	result, err := h.importer.ImportImages(c.Request.Context(), id, shelfNumber, images)
	if err != nil {
		writeStoreError(c, err, "BOOKSHELF_NOT_FOUND", "bookshelf not found")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *BookshelfHandler) readUpload(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read file contents of %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > h.maxUploadBytes {
		return nil, fmt.Errorf("file %s too large (max %d bytes)", fh.Filename, h.maxUploadBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("file %s is empty", fh.Filename)
	}
	return data, nil
}
