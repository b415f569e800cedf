package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"github.com/lehigh-university-libraries/homelibrary/internal/storage"
	"github.com/lehigh-university-libraries/homelibrary/internal/validation"
)

type RoomHandler struct {
	store *storage.Store
}

func NewRoomHandler(store *storage.Store) *RoomHandler {
	return &RoomHandler{store: store}
}

func (h *RoomHandler) RegisterRoutes(r *gin.RouterGroup) {
	rooms := r.Group("/rooms")
	{
		rooms.GET("", h.ListRooms)
		rooms.POST("", h.CreateRoom)
		rooms.GET("/:id", h.GetRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
		rooms.GET("/:id/bookshelves", h.ListBookshelves)
	}
}

type CreateRoomRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// ShelfOption is the compact bookshelf form used by dynamic menus.
type ShelfOption struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ListRooms godoc
// @Summary      List rooms
// @Tags         rooms
// @Produce      json
// @Success      200  {array}   models.Room
// @Failure      500  {object}  validation.ErrorResponse
// @Router       /rooms [get]
func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.store.ListRooms(c.Request.Context())
	if err != nil {
		writeStoreError(c, err, "ROOM_NOT_FOUND", "room not found")
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// CreateRoom godoc
// @Summary      Create a room
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        payload  body      CreateRoomRequest  true  "Room to create"
// @Success      201      {object}  models.Room
// @Failure      400      {object}  validation.ErrorResponse
// @Router       /rooms [post]
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var req CreateRoomRequest
	if !validation.BindAndValidateJSON(c, &req) {
		return
	}

	room := models.Room{Name: req.Name}
	if err := h.store.CreateRoom(c.Request.Context(), &room); err != nil {
		writeStoreError(c, err, "ROOM_NOT_FOUND", "room not found")
		return
	}
	c.JSON(http.StatusCreated, room)
}

// GetRoom godoc
// @Summary      Get a room with its bookshelf layout
// @Tags         rooms
// @Produce      json
// @Param        id   path      int  true  "Room ID"
// @Success      200  {object}  models.Room
// @Failure      404  {object}  validation.ErrorResponse
// @Router       /rooms/{id} [get]
func (h *RoomHandler) GetRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	room, err := h.store.GetRoom(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "ROOM_NOT_FOUND", "room not found")
		return
	}
	c.JSON(http.StatusOK, room)
}

// DeleteRoom godoc
// @Summary      Delete a room, its bookshelves and their books
// @Tags         rooms
// @Param        id   path  int  true  "Room ID"
// @Success      204
// @Failure      404  {object}  validation.ErrorResponse
// @Router       /rooms/{id} [delete]
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.store.DeleteRoom(c.Request.Context(), id); err != nil {
		writeStoreError(c, err, "ROOM_NOT_FOUND", "room not found")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListBookshelves godoc
// @Summary      List the bookshelves of a room
// @Tags         rooms
// @Produce      json
// @Param        id   path      int  true  "Room ID"
// @Success      200  {array}   ShelfOption
// @Router       /rooms/{id}/bookshelves [get]
func (h *RoomHandler) ListBookshelves(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	shelves, err := h.store.ListBookshelves(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, err, "ROOM_NOT_FOUND", "room not found")
		return
	}
	out := make([]ShelfOption, 0, len(shelves))
	for _, s := range shelves {
		out = append(out, ShelfOption{ID: s.ID, Name: s.Name})
	}
	c.JSON(http.StatusOK, out)
}
