// Package handlers exposes the catalog over a JSON HTTP API.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/validation"
)

func writeError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, validation.ErrorResponse{
		Code:    code,
		Message: message,
		Errors:  nil,
	})
}

// writeStoreError maps a store failure to 404 or 500.
func writeStoreError(c *gin.Context, err error, notFoundCode, notFoundMessage string) {
	if errors.Is(err, storage.ErrNotFound) {
		writeError(c, http.StatusNotFound, notFoundCode, notFoundMessage)
		return
	}
	slog.Error("Store operation failed", "path", c.FullPath(), "err", err)
	writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}

// idParam reads a positive integer path parameter, writing a 400 when it is
// not one.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		writeError(c, http.StatusBadRequest, "INVALID_ID", name+" must be a positive integer")
		return 0, false
	}
	return uint(v), true
}

func shelfRange(count int) []int {
	r := make([]int, 0, count)
	for i := 1; i <= count; i++ {
		r = append(r, i)
	}
	return r
}
