// Package favorites provides database operations for a user's favorite
// books. All operations are scoped to the owning user.
package favorites

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
)

// Repository handles all favorites database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new favorites repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListForUser returns a user's favorites with their books enriched.
func (r *Repository) ListForUser(userID uint) ([]entities.Favorite, error) {
	var favorites []entities.Favorite
	err := r.db.Preload("Book").Preload("Book.Author").Preload("Book.Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	return favorites, err
}

// Add marks a book as favorite. A duplicate (user, book) pair fails with
// ErrConflict, a missing book with ErrNotFound.
func (r *Repository) Add(userID, bookID uint) (*entities.Favorite, error) {
	var bookCount int64
	if err := r.db.Model(&entities.Book{}).Where("id = ?", bookID).Count(&bookCount).Error; err != nil {
		return nil, err
	}
	if bookCount == 0 {
		return nil, fmt.Errorf("book %d: %w", bookID, database.ErrNotFound)
	}

	// Insert and let the (user_id, book_id) unique index decide: a prior
	// existence check would race against a concurrent add of the same pair.
	favorite := &entities.Favorite{UserID: userID, BookID: bookID}
	if err := r.db.Create(favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("book %d already favorited: %w", bookID, database.ErrConflict)
		}
		return nil, err
	}
	return favorite, nil
}

// Remove deletes a favorite; removing an absent one fails with ErrNotFound.
func (r *Repository) Remove(userID, bookID uint) error {
	result := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).Delete(&entities.Favorite{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("favorite for book %d: %w", bookID, database.ErrNotFound)
	}
	return nil
}

// IsFavorite reports whether the user has favorited the book.
func (r *Repository) IsFavorite(userID, bookID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Favorite{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error
	return count > 0, err
}
