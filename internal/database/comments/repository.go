// Package comments provides database operations for moderated book
// comments. Approval and deletion both refresh the owning book's rating
// aggregate in the same transaction.
package comments

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
)

// Repository handles all comment database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new comment repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(id uint) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.Preload("User").First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("comment %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &comment, nil
}

// ListApprovedForBook returns a book's approved comments, newest first,
// with the commenting users preloaded for the response projection.
func (r *Repository) ListApprovedForBook(bookID uint) ([]entities.Comment, error) {
	var comments []entities.Comment
	err := r.db.Preload("User").
		Where("book_id = ? AND is_approved = ?", bookID, true).
		Order("created_at DESC").
		Find(&comments).Error
	return comments, err
}

// ListAll returns comments for the moderation queue, optionally filtered by
// approval state.
func (r *Repository) ListAll(approved *bool) ([]entities.Comment, error) {
	query := r.db.Preload("User").Preload("Book").Order("created_at DESC")
	if approved != nil {
		query = query.Where("is_approved = ?", *approved)
	}
	var comments []entities.Comment
	err := query.Find(&comments).Error
	return comments, err
}

// Create inserts a comment. New comments always start unapproved and only
// surface publicly once a moderator approves them.
func (r *Repository) Create(comment *entities.Comment) error {
	var bookCount int64
	if err := r.db.Model(&entities.Book{}).Where("id = ?", comment.BookID).Count(&bookCount).Error; err != nil {
		return err
	}
	if bookCount == 0 {
		return fmt.Errorf("book %d: %w", comment.BookID, database.ErrNotFound)
	}

	comment.IsApproved = false
	comment.HelpfulCount = 0
	return r.db.Create(comment).Error
}

// Approve marks a comment approved and, when it carries a rating,
// recomputes the owning book's rating in the same transaction.
func (r *Repository) Approve(id uint) (*entities.Comment, error) {
	var comment entities.Comment

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("comment %d: %w", id, database.ErrNotFound)
			}
			return err
		}
		if comment.IsApproved {
			return nil
		}
		if err := tx.Model(&comment).Update("is_approved", true).Error; err != nil {
			return err
		}
		if comment.Rating != nil {
			return database.RecomputeBookRating(tx, comment.BookID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	comment.IsApproved = true
	return &comment, nil
}

// Delete removes a comment. Deleting an approved rated comment recomputes
// the owning book's rating so the aggregate never reflects removed rows.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var comment entities.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("comment %d: %w", id, database.ErrNotFound)
			}
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		if comment.IsApproved && comment.Rating != nil {
			return database.RecomputeBookRating(tx, comment.BookID)
		}
		return nil
	})
}

// IncrementHelpfulCount bumps the helpful counter with a single
// column-relative UPDATE, safe under concurrent callers.
func (r *Repository) IncrementHelpfulCount(id uint) error {
	result := r.db.Model(&entities.Comment{}).Where("id = ?", id).
		UpdateColumn("helpful_count", gorm.Expr("helpful_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("comment %d: %w", id, database.ErrNotFound)
	}
	return nil
}
