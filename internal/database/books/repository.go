// Package books provides database operations for book management, including
// the cascading counter maintenance that keeps category, author and series
// aggregates in step with every book write.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"estante/internal/database"
	"estante/internal/entities"
	"estante/internal/slug"
)

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new book repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Filter narrows List results. Zero values mean "no constraint".
type Filter struct {
	CategoryID uint
	AuthorID   uint
	SeriesID   uint
	Featured   *bool
	New        *bool
	Free       *bool
	Search     string
	Limit      int
	Offset     int
}

// UpdateParams holds the optional fields of a partial book update.
// SeriesID set to 0 detaches the book from its series.
type UpdateParams struct {
	Title        *string
	Slug         *string
	AuthorID     *uint
	CategoryID   *uint
	Description  *string
	CoverURL     *string
	EpubURL      *string
	PdfURL       *string
	AmazonURL    *string
	Format       *entities.BookFormat
	PageCount    *int
	ISBN         *string
	PublishYear  *int
	Publisher    *string
	Language     *string
	IsFeatured   *bool
	IsNew        *bool
	IsFree       *bool
	SeriesID     *uint
	VolumeNumber *int
}

// List returns books matching the filter together with the unfiltered match
// count. Author and category are batch-preloaded, never fetched per row.
func (r *Repository) List(f Filter) ([]entities.Book, int64, error) {
	query := r.db.Model(&entities.Book{})

	if f.CategoryID > 0 {
		query = query.Where("category_id = ?", f.CategoryID)
	}
	if f.AuthorID > 0 {
		query = query.Where("author_id = ?", f.AuthorID)
	}
	if f.SeriesID > 0 {
		query = query.Where("series_id = ?", f.SeriesID)
	}
	if f.Featured != nil {
		query = query.Where("is_featured = ?", *f.Featured)
	}
	if f.New != nil {
		query = query.Where("is_new = ?", *f.New)
	}
	if f.Free != nil {
		query = query.Where("is_free = ?", *f.Free)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		query = query.Where("LOWER(title) LIKE LOWER(?)", pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Author").Preload("Category").Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	if f.Offset > 0 {
		query = query.Offset(f.Offset)
	}

	var books []entities.Book
	err := query.Find(&books).Error
	return books, total, err
}

func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Category").First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %d: %w", id, database.ErrNotFound)
		}
		return nil, err
	}
	return &book, nil
}

func (r *Repository) GetBySlug(s string) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Author").Preload("Category").Where("slug = ?", s).First(&book).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("book %q: %w", s, database.ErrNotFound)
		}
		return nil, err
	}
	return &book, nil
}

// GetBySeries returns a series' member books in volume order.
func (r *Repository) GetBySeries(seriesID uint) ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Preload("Author").Preload("Category").
		Where("series_id = ?", seriesID).
		Order("volume_number ASC, title ASC").
		Find(&books).Error
	return books, err
}

// Create inserts a book after verifying its author, category and optional
// series exist, then refreshes the affected counters in the same
// transaction.
func (r *Repository) Create(book *entities.Book) error {
	if book.Slug == "" {
		book.Slug = slug.Make(book.Title)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureExists(tx, &entities.Author{}, book.AuthorID, "author"); err != nil {
			return err
		}
		if err := ensureExists(tx, &entities.Category{}, book.CategoryID, "category"); err != nil {
			return err
		}
		if book.SeriesID != nil {
			if err := ensureExists(tx, &entities.Series{}, *book.SeriesID, "series"); err != nil {
				return err
			}
		}
		if err := ensureSlugFree(tx, book.Slug, 0); err != nil {
			return err
		}

		// Aggregates are repository-owned; ignore any client-supplied values.
		book.DownloadCount = 0
		book.Rating = 0
		book.RatingCount = 0

		if err := tx.Create(book).Error; err != nil {
			return err
		}

		if err := database.RecomputeCategoryBookCount(tx, book.CategoryID); err != nil {
			return err
		}
		if err := database.RecomputeAuthorBookCount(tx, book.AuthorID); err != nil {
			return err
		}
		if book.SeriesID != nil {
			return database.RecomputeSeriesTotalBooks(tx, *book.SeriesID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	reloaded, err := r.GetByID(book.ID)
	if err == nil {
		*book = *reloaded
	}
	return nil
}

// Update applies a partial update. Changing categoryId (or authorId or
// seriesId) refreshes both the old and the new counter in the same
// transaction as the book write.
func (r *Repository) Update(id uint, params UpdateParams) (*entities.Book, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book %d: %w", id, database.ErrNotFound)
			}
			return err
		}

		oldCategoryID := book.CategoryID
		oldAuthorID := book.AuthorID
		var oldSeriesID uint
		if book.SeriesID != nil {
			oldSeriesID = *book.SeriesID
		}

		updates := map[string]any{}
		if params.Title != nil {
			updates["title"] = *params.Title
		}
		if params.Slug != nil && *params.Slug != book.Slug {
			if err := ensureSlugFree(tx, *params.Slug, id); err != nil {
				return err
			}
			updates["slug"] = *params.Slug
		}
		if params.AuthorID != nil && *params.AuthorID != book.AuthorID {
			if err := ensureExists(tx, &entities.Author{}, *params.AuthorID, "author"); err != nil {
				return err
			}
			updates["author_id"] = *params.AuthorID
		}
		if params.CategoryID != nil && *params.CategoryID != book.CategoryID {
			if err := ensureExists(tx, &entities.Category{}, *params.CategoryID, "category"); err != nil {
				return err
			}
			updates["category_id"] = *params.CategoryID
		}
		if params.VolumeNumber != nil {
			updates["volume_number"] = *params.VolumeNumber
		}
		if params.SeriesID != nil {
			if *params.SeriesID == 0 {
				// Detach wins over any volume number in the same request.
				updates["series_id"] = nil
				updates["volume_number"] = nil
			} else {
				if err := ensureExists(tx, &entities.Series{}, *params.SeriesID, "series"); err != nil {
					return err
				}
				updates["series_id"] = *params.SeriesID
			}
		}
		if params.Description != nil {
			updates["description"] = *params.Description
		}
		if params.CoverURL != nil {
			updates["cover_url"] = *params.CoverURL
		}
		if params.EpubURL != nil {
			updates["epub_url"] = *params.EpubURL
		}
		if params.PdfURL != nil {
			updates["pdf_url"] = *params.PdfURL
		}
		if params.AmazonURL != nil {
			updates["amazon_url"] = *params.AmazonURL
		}
		if params.Format != nil {
			updates["format"] = *params.Format
		}
		if params.PageCount != nil {
			updates["page_count"] = *params.PageCount
		}
		if params.ISBN != nil {
			updates["isbn"] = *params.ISBN
		}
		if params.PublishYear != nil {
			updates["publish_year"] = *params.PublishYear
		}
		if params.Publisher != nil {
			updates["publisher"] = *params.Publisher
		}
		if params.Language != nil {
			updates["language"] = *params.Language
		}
		if params.IsFeatured != nil {
			updates["is_featured"] = *params.IsFeatured
		}
		if params.IsNew != nil {
			updates["is_new"] = *params.IsNew
		}
		if params.IsFree != nil {
			updates["is_free"] = *params.IsFree
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&book).Updates(updates).Error; err != nil {
			return err
		}

		newCategoryID := oldCategoryID
		if params.CategoryID != nil {
			newCategoryID = *params.CategoryID
		}
		newAuthorID := oldAuthorID
		if params.AuthorID != nil {
			newAuthorID = *params.AuthorID
		}
		newSeriesID := oldSeriesID
		if params.SeriesID != nil {
			newSeriesID = *params.SeriesID // 0 means detached
		}

		for _, categoryID := range changedIDs(oldCategoryID, newCategoryID) {
			if err := database.RecomputeCategoryBookCount(tx, categoryID); err != nil {
				return err
			}
		}
		for _, authorID := range changedIDs(oldAuthorID, newAuthorID) {
			if err := database.RecomputeAuthorBookCount(tx, authorID); err != nil {
				return err
			}
		}
		for _, seriesID := range changedIDs(oldSeriesID, newSeriesID) {
			if err := database.RecomputeSeriesTotalBooks(tx, seriesID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// Delete removes a book together with its favorites, reading history and
// comments, then refreshes the affected counters.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book %d: %w", id, database.ErrNotFound)
			}
			return err
		}

		if err := tx.Where("book_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.ReadingHistory{}).Error; err != nil {
			return err
		}
		if err := tx.Where("book_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&book).Error; err != nil {
			return err
		}

		if err := database.RecomputeCategoryBookCount(tx, book.CategoryID); err != nil {
			return err
		}
		if err := database.RecomputeAuthorBookCount(tx, book.AuthorID); err != nil {
			return err
		}
		if book.SeriesID != nil {
			return database.RecomputeSeriesTotalBooks(tx, *book.SeriesID)
		}
		return nil
	})
}

// IncrementDownloadCount bumps the download counter with a single
// column-relative UPDATE, so concurrent increments never lose updates.
func (r *Repository) IncrementDownloadCount(id uint) error {
	result := r.db.Model(&entities.Book{}).Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book %d: %w", id, database.ErrNotFound)
	}
	return nil
}

// ensureExists verifies a referenced row is present before a write.
func ensureExists(tx *gorm.DB, model any, id uint, name string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%s %d: %w", name, id, database.ErrNotFound)
	}
	return nil
}

func ensureSlugFree(tx *gorm.DB, s string, excludeID uint) error {
	var count int64
	query := tx.Model(&entities.Book{}).Where("slug = ?", s)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("book slug %q: %w", s, database.ErrConflict)
	}
	return nil
}

// changedIDs returns the distinct non-zero ids among old and new, so a
// foreign-key change refreshes both sides exactly once.
func changedIDs(oldID, newID uint) []uint {
	if oldID == newID {
		if oldID == 0 {
			return nil
		}
		return []uint{oldID}
	}
	ids := make([]uint, 0, 2)
	if oldID != 0 {
		ids = append(ids, oldID)
	}
	if newID != 0 {
		ids = append(ids, newID)
	}
	return ids
}
