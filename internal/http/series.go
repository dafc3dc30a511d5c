package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estante/internal/database/books"
	"estante/internal/database/series"
	"estante/internal/entities"
)

// SeriesController serves series reads and admin mutations.
type SeriesController struct {
	series *series.Repository
	books  *books.Repository
}

func NewSeriesController(seriesRepo *series.Repository, bookRepo *books.Repository) *SeriesController {
	return &SeriesController{series: seriesRepo, books: bookRepo}
}

// List returns all series, optionally narrowed to one author.
func (sc *SeriesController) List(c *gin.Context) {
	if v := c.Query("author"); v != "" {
		authorID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid author")
			return
		}
		list, err := sc.series.GetByAuthor(uint(authorID))
		if err != nil {
			respondInternalError(c, err, "list series")
			return
		}
		c.JSON(http.StatusOK, gin.H{"series": list})
		return
	}

	list, err := sc.series.GetAll()
	if err != nil {
		respondInternalError(c, err, "list series")
		return
	}
	c.JSON(http.StatusOK, gin.H{"series": list})
}

// Get fetches one series together with its books in volume order.
func (sc *SeriesController) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	s, err := sc.series.GetByID(id)
	if err != nil {
		respondDomainError(c, err, "series")
		return
	}

	seriesBooks, err := sc.books.GetBySeries(id)
	if err != nil {
		respondInternalError(c, err, "series books")
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": s, "books": toBookResponses(seriesBooks)})
}

type createSeriesRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	AuthorID    uint   `json:"authorId" binding:"required"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl" binding:"omitempty,url"`
}

func (sc *SeriesController) Create(c *gin.Context) {
	var req createSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	s := &entities.Series{
		Name:        req.Name,
		AuthorID:    req.AuthorID,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	}
	if err := sc.series.Create(s); err != nil {
		respondDomainError(c, err, "series")
		return
	}

	respondCreated(c, s)
}

type updateSeriesRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	CoverURL    *string `json:"coverUrl" binding:"omitempty,url"`
}

func (sc *SeriesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	s, err := sc.series.Update(id, series.UpdateParams{
		Name:        req.Name,
		Description: req.Description,
		CoverURL:    req.CoverURL,
	})
	if err != nil {
		respondDomainError(c, err, "series")
		return
	}

	c.JSON(http.StatusOK, s)
}

// Delete removes a series and detaches its books; the books survive with
// no series link.
func (sc *SeriesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := sc.series.Delete(id); err != nil {
		respondDomainError(c, err, "series")
		return
	}

	respondSuccess(c, "series deleted")
}
