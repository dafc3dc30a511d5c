package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estante/internal/database/authors"
	"estante/internal/database/series"
	"estante/internal/entities"
)

// AuthorsController serves author reads and admin mutations.
type AuthorsController struct {
	authors *authors.Repository
	series  *series.Repository
}

func NewAuthorsController(authorRepo *authors.Repository, seriesRepo *series.Repository) *AuthorsController {
	return &AuthorsController{authors: authorRepo, series: seriesRepo}
}

func (ac *AuthorsController) List(c *gin.Context) {
	list, err := ac.authors.GetAll()
	if err != nil {
		respondInternalError(c, err, "list authors")
		return
	}
	c.JSON(http.StatusOK, gin.H{"authors": list})
}

// Get fetches one author by slug or numeric id, with their series.
func (ac *AuthorsController) Get(c *gin.Context) {
	key := c.Param("id")

	var (
		author *entities.Author
		err    error
	)
	if id, convErr := strconv.ParseUint(key, 10, 32); convErr == nil {
		author, err = ac.authors.GetByID(uint(id))
	} else {
		author, err = ac.authors.GetBySlug(key)
	}
	if err != nil {
		respondDomainError(c, err, "author")
		return
	}

	authorSeries, err := ac.series.GetByAuthor(author.ID)
	if err != nil {
		respondInternalError(c, err, "author series")
		return
	}

	c.JSON(http.StatusOK, gin.H{"author": author, "series": authorSeries})
}

type createAuthorRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Slug     string `json:"slug" binding:"omitempty,max=255"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl" binding:"omitempty,url"`
}

func (ac *AuthorsController) Create(c *gin.Context) {
	var req createAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	author := &entities.Author{
		Name:     req.Name,
		Slug:     req.Slug,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
	}
	if err := ac.authors.Create(author); err != nil {
		respondDomainError(c, err, "author")
		return
	}

	respondCreated(c, author)
}

type updateAuthorRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Slug     *string `json:"slug" binding:"omitempty,max=255"`
	Bio      *string `json:"bio"`
	PhotoURL *string `json:"photoUrl" binding:"omitempty,url"`
}

func (ac *AuthorsController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	author, err := ac.authors.Update(id, authors.UpdateParams{
		Name:     req.Name,
		Slug:     req.Slug,
		Bio:      req.Bio,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		respondDomainError(c, err, "author")
		return
	}

	c.JSON(http.StatusOK, author)
}

// Delete removes an author. Rejected with 409 while books reference them;
// the author's empty series go with them.
func (ac *AuthorsController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ac.authors.Delete(id); err != nil {
		respondDomainError(c, err, "author")
		return
	}

	respondSuccess(c, "author deleted")
}
