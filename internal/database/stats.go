package database

import (
	"estante/internal/entities"
)

// Stats are the aggregate counts shown on the admin dashboard.
type Stats struct {
	Users           int64 `json:"users"`
	Books           int64 `json:"books"`
	Authors         int64 `json:"authors"`
	Categories      int64 `json:"categories"`
	Series          int64 `json:"series"`
	PendingComments int64 `json:"pendingComments"`
	TotalDownloads  int64 `json:"totalDownloads"`
}

// CollectStats counts the catalog entities and sums the download counters.
func (d *Database) CollectStats() (*Stats, error) {
	var stats Stats

	counts := []struct {
		model any
		dest  *int64
	}{
		{&entities.User{}, &stats.Users},
		{&entities.Book{}, &stats.Books},
		{&entities.Author{}, &stats.Authors},
		{&entities.Category{}, &stats.Categories},
		{&entities.Series{}, &stats.Series},
	}
	for _, c := range counts {
		if err := d.DB.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	err := d.DB.Model(&entities.Comment{}).
		Where("is_approved = ?", false).
		Count(&stats.PendingComments).Error
	if err != nil {
		return nil, err
	}

	err = d.DB.Model(&entities.Book{}).
		Select("COALESCE(SUM(download_count), 0)").
		Scan(&stats.TotalDownloads).Error
	if err != nil {
		return nil, err
	}

	return &stats, nil
}
