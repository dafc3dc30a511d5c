// Package series provides database operations for book series management.
package series

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
)

// Repository handles all series database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new series repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpdateParams holds the optional fields of a partial series update.
type UpdateParams struct {
	Name        *string
	AuthorID    *uint
	Description *string
	CoverURL    *string
}

func (r *Repository) GetAll() ([]entities.Series, error) {
	var series []entities.Series
	err := r.db.Preload("Author").Order("name ASC").Find(&series).Error
	return series, err
}

func (r *Repository) GetByID(id uint) (*entities.Series, error) {
	var s entities.Series
	err := r.db.Preload("Author").First(&s, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("series %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &s, nil
}

func (r *Repository) GetByAuthor(authorID uint) ([]entities.Series, error) {
	var series []entities.Series
	err := r.db.Where("author_id = ?", authorID).Order("name ASC").Find(&series).Error
	return series, err
}

// Create inserts a series after verifying the owning author exists.
func (r *Repository) Create(s *entities.Series) error {
	if err := r.ensureAuthorExists(s.AuthorID); err != nil {
		return err
	}
	return r.db.Create(s).Error
}

func (r *Repository) Update(id uint, params UpdateParams) (*entities.Series, error) {
	s, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.AuthorID != nil && *params.AuthorID != s.AuthorID {
		if err := r.ensureAuthorExists(*params.AuthorID); err != nil {
			return nil, err
		}
		updates["author_id"] = *params.AuthorID
	}
	if params.Description != nil {
		updates["description"] = *params.Description
	}
	if params.CoverURL != nil {
		updates["cover_url"] = *params.CoverURL
	}

	if len(updates) == 0 {
		return s, nil
	}
	if err := r.db.Model(s).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a series. Member books are detached, not deleted: their
// seriesId and volumeNumber are nulled in the same transaction.
func (r *Repository) Delete(id uint) error {
	s, err := r.GetByID(id)
	if err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entities.Book{}).Where("series_id = ?", id).
			Updates(map[string]any{"series_id": nil, "volume_number": nil}).Error
		if err != nil {
			return err
		}
		return tx.Delete(s).Error
	})
}

func (r *Repository) ensureAuthorExists(authorID uint) error {
	var count int64
	if err := r.db.Model(&entities.Author{}).Where("id = ?", authorID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("author %d: %w", authorID, database.ErrNotFound)
	}
	return nil
}
