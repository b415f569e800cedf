package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/validation"
)

// LayoutHandler serves the room editor's bookshelf endpoint. Every reply uses
// the editor's {status, message} envelope, and every failure is a 400.
type LayoutHandler struct {
	store *storage.Store
}

func NewLayoutHandler(store *storage.Store) *LayoutHandler {
	return &LayoutHandler{store: store}
}

func (h *LayoutHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.Any("/bookshelf", h.Dispatch)
}

// LayoutStatus is the editor's reply envelope.
type LayoutStatus struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message"`
}

type CreateShelfRequest struct {
	RoomID    uint   `json:"room_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	ShapeType string `json:"shape_type" binding:"required,oneof=rectangle square triangle"`
}

// ShelfGeometry is the canonical layout record returned on create.
type ShelfGeometry struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	ShapeType string `json:"shape_type"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Rotation  int    `json:"rotation"`
}

// ShelfPatch updates the listed fields of one bookshelf. Geometry arrives
// from a drag editor and may be fractional; it is rounded on save.
type ShelfPatch struct {
	ID        uint     `json:"id" binding:"required"`
	Name      *string  `json:"name,omitempty" binding:"omitempty,min=1"`
	ShapeType *string  `json:"shape_type,omitempty" binding:"omitempty,oneof=rectangle square triangle"`
	X         *float64 `json:"x,omitempty"`
	Y         *float64 `json:"y,omitempty"`
	Width     *float64 `json:"width,omitempty"`
	Height    *float64 `json:"height,omitempty"`
	Rotation  *float64 `json:"rotation,omitempty"`
}

type DeleteShelfRequest struct {
	ID uint `json:"id" binding:"required"`
}

// Dispatch godoc
// @Summary      Create, update or delete bookshelves from the layout editor
// @Description  POST creates a bookshelf with default geometry and returns it. PUT applies an array of partial patches in one transaction. DELETE removes one bookshelf and its books.
// @Tags         layout
// @Accept       json
// @Produce      json
// @Success      200  {object}  ShelfGeometry  "POST"
// @Success      200  {object}  LayoutStatus   "PUT, DELETE"
// @Failure      400  {object}  LayoutStatus
// @Failure      405  {object}  LayoutStatus
// @Router       /bookshelf [post]
// @Router       /bookshelf [put]
// @Router       /bookshelf [delete]
func (h *LayoutHandler) Dispatch(c *gin.Context) {
	var err error
	switch c.Request.Method {
	case http.MethodPost:
		err = h.create(c)
	case http.MethodPut:
		err = h.update(c)
	case http.MethodDelete:
		err = h.delete(c)
	default:
		c.Header("Allow", "POST, PUT, DELETE")
		c.AbortWithStatusJSON(http.StatusMethodNotAllowed, LayoutStatus{
			Status:  "error",
			Message: "method " + c.Request.Method + " not allowed",
		})
		return
	}

	if err != nil {
		slog.Warn("Layout request failed", "method", c.Request.Method, "err", err)
		c.AbortWithStatusJSON(http.StatusBadRequest, LayoutStatus{Status: "error", Message: err.Error()})
	}
}

func (h *LayoutHandler) create(c *gin.Context) error {
	var req CreateShelfRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	shelf := models.NewBookshelf(req.RoomID, req.Name, req.ShapeType)
	if err := h.store.CreateBookshelf(c.Request.Context(), shelf); err != nil {
		return err
	}

	c.JSON(http.StatusOK, ShelfGeometry{
		ID:        shelf.ID,
		Name:      shelf.Name,
		ShapeType: shelf.ShapeType,
		X:         shelf.X,
		Y:         shelf.Y,
		Width:     shelf.Width,
		Height:    shelf.Height,
		Rotation:  shelf.Rotation,
	})
	return nil
}

func (h *LayoutHandler) update(c *gin.Context) error {
	var req []ShelfPatch
	if err := decodeBody(c, &req); err != nil {
		return err
	}

	patches := make([]storage.BookshelfPatch, 0, len(req))
	for i, p := range req {
		if err := validation.Struct(p); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		patches = append(patches, storage.BookshelfPatch{
			ID:        p.ID,
			Name:      p.Name,
			ShapeType: p.ShapeType,
			X:         roundCoord(p.X),
			Y:         roundCoord(p.Y),
			Width:     roundCoord(p.Width),
			Height:    roundCoord(p.Height),
			Rotation:  roundCoord(p.Rotation),
		})
	}

	ids, err := h.store.UpdateBookshelves(c.Request.Context(), patches)
	if err != nil {
		return err
	}

	c.JSON(http.StatusOK, LayoutStatus{
		Status:  "success",
		Message: fmt.Sprintf("Bookshelves %v updated", ids),
	})
	return nil
}

func (h *LayoutHandler) delete(c *gin.Context) error {
	var req DeleteShelfRequest
	if err := decodeBody(c, &req); err != nil {
		return err
	}
	if err := validation.Struct(req); err != nil {
		return err
	}

	if err := h.store.DeleteBookshelf(c.Request.Context(), req.ID); err != nil {
		return err
	}

	c.JSON(http.StatusOK, LayoutStatus{
		Status:  "success",
		Message: fmt.Sprintf("Bookshelf %d deleted", req.ID),
	})
	return nil
}

func roundCoord(v *float64) *int {
	if v == nil {
		return nil
	}
	n := int(math.Round(*v))
	return &n
}

func decodeBody(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return errors.New("request body is required")
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
