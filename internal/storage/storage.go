// Package storage persists rooms, bookshelves and books with gorm and keeps
// URL resolutions that are waiting for a placement.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lehigh-university-libraries/homelibrary/internal/models"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced row does not exist. It matches
// gorm.ErrRecordNotFound under errors.Is.
var ErrNotFound = fmt.Errorf("not found: %w", gorm.ErrRecordNotFound)

func notFound(kind string, id uint) error {
	return fmt.Errorf("%s %d %w", kind, id, ErrNotFound)
}

// Store is the gorm-backed catalog store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying connection for health checks.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Rooms

func (s *Store) ListRooms(ctx context.Context) ([]models.Room, error) {
	var rooms []models.Room
	if err := s.db.WithContext(ctx).Order("name").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *Store) CreateRoom(ctx context.Context, room *models.Room) error {
	if err := s.db.WithContext(ctx).Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// FindRoomByName returns the first room with the given name.
func (s *Store) FindRoomByName(ctx context.Context, name string) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).Where("name = ?", name).Order("id").First(&room).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("room %q %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find room %q: %w", name, err)
	}
	return &room, nil
}

// GetRoom loads a room with its bookshelves.
func (s *Store) GetRoom(ctx context.Context, id uint) (*models.Room, error) {
	var room models.Room
	err := s.db.WithContext(ctx).
		Preload("Bookshelves", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&room, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("room", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room %d: %w", id, err)
	}
	return &room, nil
}

// DeleteRoom removes a room together with its bookshelves and their books.
func (s *Store) DeleteRoom(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var shelfIDs []uint
		if err := tx.Model(&models.Bookshelf{}).Where("room_id = ?", id).Pluck("id", &shelfIDs).Error; err != nil {
			return fmt.Errorf("failed to list bookshelves of room %d: %w", id, err)
		}
		if len(shelfIDs) > 0 {
			if err := tx.Where("bookshelf_id IN ?", shelfIDs).Delete(&models.Book{}).Error; err != nil {
				return fmt.Errorf("failed to delete books of room %d: %w", id, err)
			}
		}
		if err := tx.Where("room_id = ?", id).Delete(&models.Bookshelf{}).Error; err != nil {
			return fmt.Errorf("failed to delete bookshelves of room %d: %w", id, err)
		}
		res := tx.Delete(&models.Room{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete room %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("room", id)
		}
		return nil
	})
}

// Bookshelves

// CreateBookshelf inserts b after checking that its room exists. The store
// assigns b.ID.
func (s *Store) CreateBookshelf(ctx context.Context, b *models.Bookshelf) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Room{}).Where("id = ?", b.RoomID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to look up room %d: %w", b.RoomID, err)
		}
		if count == 0 {
			return notFound("room", b.RoomID)
		}
		if err := tx.Create(b).Error; err != nil {
			return fmt.Errorf("failed to create bookshelf: %w", err)
		}
		return nil
	})
}

func (s *Store) GetBookshelf(ctx context.Context, id uint) (*models.Bookshelf, error) {
	var b models.Bookshelf
	err := s.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("bookshelf", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bookshelf %d: %w", id, err)
	}
	return &b, nil
}

// ListBookshelves returns the bookshelves of a room ordered by name.
func (s *Store) ListBookshelves(ctx context.Context, roomID uint) ([]models.Bookshelf, error) {
	var shelves []models.Bookshelf
	if err := s.db.WithContext(ctx).Where("room_id = ?", roomID).Order("name").Find(&shelves).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookshelves of room %d: %w", roomID, err)
	}
	return shelves, nil
}

// BookshelfPatch is a partial geometry update. Nil fields keep their value.
type BookshelfPatch struct {
	ID        uint
	Name      *string
	ShapeType *string
	X         *int
	Y         *int
	Width     *int
	Height    *int
	Rotation  *int
}

// Apply overwrites the fields of b that are set in p.
func (p BookshelfPatch) Apply(b *models.Bookshelf) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.ShapeType != nil {
		b.ShapeType = *p.ShapeType
	}
	if p.X != nil {
		b.X = *p.X
	}
	if p.Y != nil {
		b.Y = *p.Y
	}
	if p.Width != nil {
		b.Width = *p.Width
	}
	if p.Height != nil {
		b.Height = *p.Height
	}
	if p.Rotation != nil {
		b.Rotation = *p.Rotation
	}
}

// UpdateBookshelves applies every patch in one transaction. If any patch
// names a missing bookshelf nothing is written and the error names its id.
func (s *Store) UpdateBookshelves(ctx context.Context, patches []BookshelfPatch) ([]uint, error) {
	updated := make([]uint, 0, len(patches))
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range patches {
			var b models.Bookshelf
			err := tx.First(&b, p.ID).Error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("bookshelf", p.ID)
			}
			if err != nil {
				return fmt.Errorf("failed to get bookshelf %d: %w", p.ID, err)
			}
			p.Apply(&b)
			if err := tx.Save(&b).Error; err != nil {
				return fmt.Errorf("failed to update bookshelf %d: %w", p.ID, err)
			}
			updated = append(updated, p.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteBookshelf removes a bookshelf and the books on it.
func (s *Store) DeleteBookshelf(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("bookshelf_id = ?", id).Delete(&models.Book{}).Error; err != nil {
			return fmt.Errorf("failed to delete books of bookshelf %d: %w", id, err)
		}
		res := tx.Delete(&models.Bookshelf{}, id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete bookshelf %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return notFound("bookshelf", id)
		}
		return nil
	})
}

// SetShelfCount overwrites the number of shelves of a bookshelf.
func (s *Store) SetShelfCount(ctx context.Context, id uint, count int) (*models.Bookshelf, error) {
	b, err := s.GetBookshelf(ctx, id)
	if err != nil {
		return nil, err
	}
	b.ShelfCount = count
	if err := s.db.WithContext(ctx).Model(b).Update("shelf_count", count).Error; err != nil {
		return nil, fmt.Errorf("failed to update shelf count of bookshelf %d: %w", id, err)
	}
	return b, nil
}

// EnsureShelfCount raises the shelf count of a bookshelf to at least min.
// It never lowers it.
func (s *Store) EnsureShelfCount(ctx context.Context, id uint, min int) (*models.Bookshelf, error) {
	b, err := s.GetBookshelf(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.ShelfCount >= min {
		return b, nil
	}
	return s.SetShelfCount(ctx, id, min)
}

// Books

func (s *Store) CreateBook(ctx context.Context, book *models.Book) error {
	if err := s.db.WithContext(ctx).Create(book).Error; err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (s *Store) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := s.db.WithContext(ctx).First(&book, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("book", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get book %d: %w", id, err)
	}
	return &book, nil
}

// SaveBook writes every field of an existing book.
func (s *Store) SaveBook(ctx context.Context, book *models.Book) error {
	if err := s.db.WithContext(ctx).Save(book).Error; err != nil {
		return fmt.Errorf("failed to save book %d: %w", book.ID, err)
	}
	return nil
}

func (s *Store) DeleteBook(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete book %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("book", id)
	}
	return nil
}

// BookFilter narrows SearchBooks. Zero values match everything.
type BookFilter struct {
	Query     string
	MinRating int
}

// SearchBooks matches Query case-insensitively against title and author and
// keeps books whose user rating is at least MinRating.
func (s *Store) SearchBooks(ctx context.Context, f BookFilter) ([]models.Book, error) {
	q := s.db.WithContext(ctx).Model(&models.Book{})
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(title) LIKE ? OR LOWER(author) LIKE ?)", like, like)
	}
	if f.MinRating > 0 {
		q = q.Where("user_rating >= ?", f.MinRating)
	}

	var books []models.Book
	if err := q.Order("title").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	return books, nil
}

// ListBooksOnBookshelf returns the books of a bookshelf ordered by shelf.
func (s *Store) ListBooksOnBookshelf(ctx context.Context, bookshelfID uint) ([]models.Book, error) {
	var books []models.Book
	err := s.db.WithContext(ctx).
		Where("bookshelf_id = ?", bookshelfID).
		Order("shelf_number, title").
		Find(&books).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list books of bookshelf %d: %w", bookshelfID, err)
	}
	return books, nil
}

// FindBookByCatalogID returns the first book with the given catalog id. A
// non-zero bookshelfID restricts the search to that bookshelf.
func (s *Store) FindBookByCatalogID(ctx context.Context, catalogID string, bookshelfID uint) (*models.Book, error) {
	q := s.db.WithContext(ctx).Where("catalog_id = ?", catalogID)
	if bookshelfID != 0 {
		q = q.Where("bookshelf_id = ?", bookshelfID)
	}
	var book models.Book
	err := q.Order("id").First(&book).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("book with catalog id %q %w", catalogID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find book by catalog id %q: %w", catalogID, err)
	}
	return &book, nil
}

// ListBooks returns every book ordered by id.
func (s *Store) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	if err := s.db.WithContext(ctx).Order("id").Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	return books, nil
}
