package entities

import (
	"time"
)

// SiteSettings is a singleton row holding the public site configuration.
// The repository guarantees exactly one row exists.
type SiteSettings struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	SiteName          string    `gorm:"size:255" json:"siteName"`
	SiteDescription   string    `gorm:"type:text" json:"siteDescription,omitempty"`
	SiteURL           string    `gorm:"size:2048" json:"siteUrl,omitempty"`
	ContactEmail      string    `gorm:"size:255" json:"contactEmail,omitempty"`
	LogoURL           string    `gorm:"size:2048" json:"logoUrl,omitempty"`
	PrimaryColor      string    `gorm:"size:20" json:"primaryColor,omitempty"`
	MaintenanceMode   bool      `gorm:"default:false" json:"maintenanceMode"`
	AllowRegistration bool      `gorm:"default:true" json:"allowRegistration"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (SiteSettings) TableName() string {
	return "site_settings"
}

// DefaultSiteSettings returns the row seeded into an empty database.
func DefaultSiteSettings() SiteSettings {
	return SiteSettings{
		SiteName:          "Estante Digital",
		SiteDescription:   "Biblioteca digital de livros",
		PrimaryColor:      "#1a73e8",
		AllowRegistration: true,
	}
}
