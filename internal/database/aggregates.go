package database

import (
	"gorm.io/gorm"

	"estante/internal/entities"
)

// The derived counters below are recomputed from the source rows inside the
// same transaction as the write that invalidated them, so a reader never
// observes a stale counter after the triggering write is acknowledged.

// RecomputeCategoryBookCount refreshes a category's book count.
func RecomputeCategoryBookCount(tx *gorm.DB, categoryID uint) error {
	if categoryID == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&entities.Book{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&entities.Category{}).Where("id = ?", categoryID).
		UpdateColumn("book_count", count).Error
}

// RecomputeAuthorBookCount refreshes an author's book count.
func RecomputeAuthorBookCount(tx *gorm.DB, authorID uint) error {
	if authorID == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&entities.Book{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&entities.Author{}).Where("id = ?", authorID).
		UpdateColumn("book_count", count).Error
}

// RecomputeSeriesTotalBooks refreshes a series' member count.
func RecomputeSeriesTotalBooks(tx *gorm.DB, seriesID uint) error {
	if seriesID == 0 {
		return nil
	}
	var count int64
	if err := tx.Model(&entities.Book{}).Where("series_id = ?", seriesID).Count(&count).Error; err != nil {
		return err
	}
	return tx.Model(&entities.Series{}).Where("id = ?", seriesID).
		UpdateColumn("total_books", count).Error
}

// RecomputeBookRating refreshes a book's rating and ratingCount from the
// approved, rated comments on that book. With no such comments the rating
// resets to 0 with a zero count.
func RecomputeBookRating(tx *gorm.DB, bookID uint) error {
	var agg struct {
		Avg   float64
		Total int64
	}
	err := tx.Model(&entities.Comment{}).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS total").
		Where("book_id = ? AND is_approved = ? AND rating IS NOT NULL", bookID, true).
		Scan(&agg).Error
	if err != nil {
		return err
	}
	return tx.Model(&entities.Book{}).Where("id = ?", bookID).Updates(map[string]any{
		"rating":       agg.Avg,
		"rating_count": agg.Total,
	}).Error
}
