// Package categories provides database operations for category management.
package categories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
	"estante/internal/slug"
)

// Repository handles all category database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new category repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// UpdateParams holds the optional fields of a partial category update.
type UpdateParams struct {
	Name     *string
	Slug     *string
	IconName *string
}

func (r *Repository) GetAll() ([]entities.Category, error) {
	var categories []entities.Category
	err := r.db.Order("name ASC").Find(&categories).Error
	return categories, err
}

func (r *Repository) GetByID(id uint) (*entities.Category, error) {
	var category entities.Category
	err := r.db.First(&category, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &category, nil
}

func (r *Repository) GetBySlug(s string) (*entities.Category, error) {
	var category entities.Category
	err := r.db.Where("slug = ?", s).First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("category %q: %w", s, database.ErrNotFound)
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a category, generating a slug from the name when absent.
func (r *Repository) Create(category *entities.Category) error {
	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}
	if err := r.ensureSlugFree(category.Slug, 0); err != nil {
		return err
	}
	return r.db.Create(category).Error
}

func (r *Repository) Update(id uint, params UpdateParams) (*entities.Category, error) {
	category, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.Name != nil {
		updates["name"] = *params.Name
	}
	if params.Slug != nil && *params.Slug != category.Slug {
		if err := r.ensureSlugFree(*params.Slug, id); err != nil {
			return nil, err
		}
		updates["slug"] = *params.Slug
	}
	if params.IconName != nil {
		updates["icon_name"] = *params.IconName
	}

	if len(updates) == 0 {
		return category, nil
	}
	if err := r.db.Model(category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a category. It fails with ErrInUse while any book still
// references the category.
func (r *Repository) Delete(id uint) error {
	category, err := r.GetByID(id)
	if err != nil {
		return err
	}

	var books int64
	if err := r.db.Model(&entities.Book{}).Where("category_id = ?", id).Count(&books).Error; err != nil {
		return err
	}
	if books > 0 {
		return fmt.Errorf("category %q has %d books: %w", category.Name, books, database.ErrInUse)
	}

	return r.db.Delete(category).Error
}

func (r *Repository) ensureSlugFree(s string, excludeID uint) error {
	var count int64
	query := r.db.Model(&entities.Category{}).Where("slug = ?", s)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category slug %q: %w", s, database.ErrConflict)
	}
	return nil
}
