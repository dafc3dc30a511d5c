// Package history provides database operations for per-user reading
// progress. Writes are upserts keyed on (user, book).
package history

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
)

// Repository handles all reading-history database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new reading-history repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpsertParams holds the optional progress fields of an upsert.
type UpsertParams struct {
	CurrentPage *int
	TotalPages  *int
	Progress    *int
	IsCompleted *bool
}

// ListForUser returns a user's reading history, most recent first, with the
// books enriched.
func (r *Repository) ListForUser(userID uint) ([]entities.ReadingHistory, error) {
	var entries []entities.ReadingHistory
	err := r.db.Preload("Book").Preload("Book.Author").Preload("Book.Category").
		Where("user_id = ?", userID).
		Order("last_read_at DESC").
		Find(&entries).Error
	return entries, err
}

// GetForBook returns the user's progress on one book, or ErrNotFound.
func (r *Repository) GetForBook(userID, bookID uint) (*entities.ReadingHistory, error) {
	var entry entities.ReadingHistory
	err := r.db.Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("reading history for book %d: %w", bookID, database.ErrNotFound)
		}
		return nil, err
	}
	return &entry, nil
}

// Upsert records progress for a (user, book) pair, updating the existing
// entry in place rather than duplicating it.
func (r *Repository) Upsert(userID, bookID uint, params UpsertParams) (*entities.ReadingHistory, error) {
	var entry entities.ReadingHistory

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var bookCount int64
		if err := tx.Model(&entities.Book{}).Where("id = ?", bookID).Count(&bookCount).Error; err != nil {
			return err
		}
		if bookCount == 0 {
			return fmt.Errorf("book %d: %w", bookID, database.ErrNotFound)
		}

		result := tx.Where("user_id = ? AND book_id = ?", userID, bookID).First(&entry)
		if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			entry = entities.ReadingHistory{UserID: userID, BookID: bookID}
		}

		if params.CurrentPage != nil {
			entry.CurrentPage = *params.CurrentPage
		}
		if params.TotalPages != nil {
			entry.TotalPages = *params.TotalPages
		}
		if params.Progress != nil {
			entry.Progress = *params.Progress
		}
		if params.IsCompleted != nil {
			entry.IsCompleted = *params.IsCompleted
		}
		entry.LastReadAt = time.Now()

		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}
