package models

import "time"

// Shape variants a bookshelf can take in the room layout.
const (
	ShapeRectangle = "rectangle"
	ShapeSquare    = "square"
	ShapeTriangle  = "triangle"
)

// Geometry defaults applied to a bookshelf created from the layout editor.
const (
	DefaultShelfX      = 50
	DefaultShelfY      = 50
	DefaultShelfWidth  = 150
	DefaultShelfHeight = 50
)

// Room is a physical room holding bookshelves.
type Room struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Name        string      `gorm:"not null" json:"name"`
	Bookshelves []Bookshelf `gorm:"constraint:OnDelete:CASCADE" json:"bookshelves,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Bookshelf is a shelf unit placed in a room. Its geometry is edited by the
// layout editor and persisted as-is.
type Bookshelf struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null" json:"name"`
	RoomID     uint      `gorm:"not null;index" json:"room_id"`
	ShapeType  string    `gorm:"not null" json:"shape_type"`
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Rotation   int       `json:"rotation"` // degrees, normally 0/90/180/270
	ShelfCount int       `gorm:"not null" json:"shelf_count"`
	Books      []Book    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewBookshelf returns a bookshelf with the default layout geometry.
func NewBookshelf(roomID uint, name, shape string) *Bookshelf {
	return &Bookshelf{
		Name:       name,
		RoomID:     roomID,
		ShapeType:  shape,
		X:          DefaultShelfX,
		Y:          DefaultShelfY,
		Width:      DefaultShelfWidth,
		Height:     DefaultShelfHeight,
		ShelfCount: 1,
	}
}

// Book is a catalogued book placed on a numbered shelf of a bookshelf.
type Book struct {
	ID            uint     `gorm:"primaryKey" json:"id"`
	Title         string   `gorm:"not null" json:"title"`
	Author        string   `json:"author"`
	Summary       string   `json:"summary"`
	CatalogID     string   `gorm:"index" json:"catalog_id"`
	CoverURL      string   `json:"cover_url"`
	PublishedDate string   `json:"published_date"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	BookshelfID   uint     `gorm:"not null;index" json:"bookshelf_id"`
	ShelfNumber   int      `gorm:"not null;default:1" json:"shelf_number"`
	// UserRating is 1-5 when set.
	UserRating *int      `json:"user_rating,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BookRecord is the canonical result of resolving a book against the catalog.
// It is transient; a Book is created from it once a placement is known.
type BookRecord struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	Summary       string `json:"summary"`
	PublishedDate string `json:"published_date"`
	CatalogID     string `json:"catalog_id"`
	CoverURL      string `json:"cover_url"`
	// AverageRating is the catalog's community rating, when it has one.
	AverageRating *float64 `json:"average_rating,omitempty"`
}

// NewBook places a resolved record on a shelf.
func NewBook(r BookRecord, bookshelfID uint, shelfNumber int) *Book {
	return &Book{
		Title:         r.Title,
		Author:        r.Author,
		Summary:       r.Summary,
		CatalogID:     r.CatalogID,
		CoverURL:      r.CoverURL,
		PublishedDate: r.PublishedDate,
		AverageRating: r.AverageRating,
		BookshelfID:   bookshelfID,
		ShelfNumber:   shelfNumber,
	}
}

// Candidate is a raw title/author pair read off a shelf photo.
type Candidate struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}
