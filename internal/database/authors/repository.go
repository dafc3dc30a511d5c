// Package authors provides database operations for author management.
package authors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
	"estante/internal/slug"
)

// Repository handles all author database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new author repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpdateParams holds the optional fields of a partial author update.
type UpdateParams struct {
	Name     *string
	Slug     *string
	Bio      *string
	PhotoURL *string
}

func (r *Repository) GetAll() ([]entities.Author, error) {
	var authors []entities.Author
	err := r.db.Order("name ASC").Find(&authors).Error
	return authors, err
}

func (r *Repository) GetByID(id uint) (*entities.Author, error) {
	var author entities.Author
	err := r.db.First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("author %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &author, nil
}

func (r *Repository) GetBySlug(s string) (*entities.Author, error) {
	var author entities.Author
	err := r.db.Where("slug = ?", s).First(&author).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("author %q: %w", s, database.ErrNotFound)
		}
		return nil, err
	}
	return &author, nil
}

// Create inserts an author, generating a slug from the name when absent.
func (r *Repository) Create(author *entities.Author) error {
	if author.Slug == "" {
		author.Slug = slug.Make(author.Name)
	}
	if err := r.ensureSlugFree(author.Slug, 0); err != nil {
		return err
	}
	return r.db.Create(author).Error
}

func (r *Repository) Update(id uint, params UpdateParams) (*entities.Author, error) {
	author, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Slug != nil && *params.Slug != author.Slug {
		if err := r.ensureSlugFree(*params.Slug, id); err != nil {
			return nil, err
		}
		updates["slug"] = *params.Slug
	}
	if params.Bio != nil {
		updates["bio"] = *params.Bio
	}
	if params.PhotoURL != nil {
		updates["photo_url"] = *params.PhotoURL
	}

	if len(updates) == 0 {
		return author, nil
	}
	if err := r.db.Model(author).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes an author. It fails with ErrInUse while any book still
// references the author. Series owned by the author are removed alongside,
// detaching their books first.
func (r *Repository) Delete(id uint) error {
	author, err := r.GetByID(id)
	if err != nil {
		return err
	}

	var books int64
	if err := r.db.Model(&entities.Book{}).Where("author_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("author %q has %d books: %w", author.Name, books, database.ErrInUse)
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		// Series owned by the author go with it; detach any member books
		// first so no series_id is left dangling.
		var seriesIDs []uint
		if err := tx.Model(&entities.Series{}).Where("author_id = ?", id).Pluck("id", &seriesIDs).Error; err != nil {
			return err
		}
		if len(seriesIDs) > 0 {
			err := tx.Model(&entities.Book{}).Where("series_id IN ?", seriesIDs).
				Updates(map[string]any{"series_id": nil, "volume_number": nil}).Error
			if err != nil {
				return err
			}
			if err := tx.Delete(&entities.Series{}, seriesIDs).Error; err != nil {
				return err
			}
		}
		return tx.Delete(author).Error
	})
}

func (r *Repository) ensureSlugFree(s string, excludeID uint) error {
	var count int64
	query := r.db.Model(&entities.Author{}).Where("slug = ?", s)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("author slug %q: %w", s, database.ErrConflict)
	}
	return nil
}
