package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"estante/internal/database"
)

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

type HealthController struct {
	db      *database.Database
	version string
}

func NewHealthController(db *database.Database, version string) *HealthController {
	return &HealthController{
		db:      db,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	status := "healthy"

	if err := h.db.Ping(c.Request.Context()); err != nil {
		checks["database"] = "error: " + err.Error()
		status = "unhealthy"
	} else {
		checks["database"] = "ok"
	}

	health := HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if status != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, health)
}

// StatsController serves the admin dashboard aggregates.
type StatsController struct {
	db *database.Database
}

func NewStatsController(db *database.Database) *StatsController {
	return &StatsController{db: db}
}

func (sc *StatsController) Stats(c *gin.Context) {
	stats, err := sc.db.CollectStats()
	if err != nil {
		respondInternalError(c, err, "admin stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}
