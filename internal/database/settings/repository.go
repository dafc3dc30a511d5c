// Package settings stores the single site-wide configuration row.
package settings

import (
	"errors"

	"gorm.io/gorm"

	"estante/internal/entities"
)

// Repository reads and updates the site settings singleton.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new settings repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get returns the settings row, creating the default one if the table is
// empty. The row is also seeded at startup, so the fallback only fires on
// a freshly truncated table.
func (r *Repository) Get() (*entities.SiteSettings, error) {
	var settings entities.SiteSettings
	err := r.db.First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		settings = entities.DefaultSiteSettings()
		if createErr := r.db.Create(&settings).Error; createErr != nil {
			return nil, createErr
		}
		return &settings, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateParams carries the fields an update may change; nil fields keep
// their current value.
type UpdateParams struct {
	SiteName          *string
	SiteDescription   *string
	SiteURL           *string
	ContactEmail      *string
	LogoURL           *string
	PrimaryColor      *string
	MaintenanceMode   *bool
	AllowRegistration *bool
}

// Update applies a partial update to the singleton and returns the
// resulting row.
func (r *Repository) Update(params UpdateParams) (*entities.SiteSettings, error) {
	settings, err := r.Get()
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if params.SiteName != nil {
		updates["site_name"] = *params.SiteName
	}
	if params.SiteDescription != nil {
		updates["site_description"] = *params.SiteDescription
	}
	if params.SiteURL != nil {
		updates["site_url"] = *params.SiteURL
	}
	if params.ContactEmail != nil {
		updates["contact_email"] = *params.ContactEmail
	}
	if params.LogoURL != nil {
		updates["logo_url"] = *params.LogoURL
	}
	if params.PrimaryColor != nil {
		updates["primary_color"] = *params.PrimaryColor
	}
	if params.MaintenanceMode != nil {
		updates["maintenance_mode"] = *params.MaintenanceMode
	}
	if params.AllowRegistration != nil {
		updates["allow_registration"] = *params.AllowRegistration
	}
	if len(updates) == 0 {
		return settings, nil
	}

	if err := r.db.Model(settings).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := r.db.First(settings, settings.ID).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
