package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estante/internal/database/settings"
)

// SettingsController serves the site settings singleton. Reads are public
// because the site chrome needs them; writes are admin-gated.
type SettingsController struct {
	settings *settings.Repository
}

func NewSettingsController(settingsRepo *settings.Repository) *SettingsController {
	return &SettingsController{settings: settingsRepo}
}

func (sc *SettingsController) Get(c *gin.Context) {
	siteSettings, err := sc.settings.Get()
	if err != nil {
		respondInternalError(c, err, "get settings")
		return
	}
	c.JSON(http.StatusOK, siteSettings)
}

type updateSettingsRequest struct {
	SiteName          *string `json:"siteName" binding:"omitempty,max=255"`
	SiteDescription   *string `json:"siteDescription"`
	SiteURL           *string `json:"siteUrl" binding:"omitempty,url"`
	ContactEmail      *string `json:"contactEmail" binding:"omitempty,email"`
	LogoURL           *string `json:"logoUrl" binding:"omitempty,url"`
	PrimaryColor      *string `json:"primaryColor" binding:"omitempty,max=20"`
	MaintenanceMode   *bool   `json:"maintenanceMode"`
	AllowRegistration *bool   `json:"allowRegistration"`
}

func (sc *SettingsController) Update(c *gin.Context) {
	var req updateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	siteSettings, err := sc.settings.Update(settings.UpdateParams{
		SiteName:          req.SiteName,
		SiteDescription:   req.SiteDescription,
		SiteURL:           req.SiteURL,
		ContactEmail:      req.ContactEmail,
		LogoURL:           req.LogoURL,
		PrimaryColor:      req.PrimaryColor,
		MaintenanceMode:   req.MaintenanceMode,
		AllowRegistration: req.AllowRegistration,
	})
	if err != nil {
		respondInternalError(c, err, "update settings")
		return
	}

	c.JSON(http.StatusOK, siteSettings)
}
