package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estante/internal/database/categories"
	"estante/internal/entities"
)

// CategoriesController serves category reads and admin mutations.
type CategoriesController struct {
	categories *categories.Repository
}

func NewCategoriesController(categoryRepo *categories.Repository) *CategoriesController {
	return &CategoriesController{categories: categoryRepo}
}

func (cc *CategoriesController) List(c *gin.Context) {
	list, err := cc.categories.GetAll()
	if err != nil {
		respondInternalError(c, err, "list categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": list})
}

// Get fetches one category by slug or numeric id.
func (cc *CategoriesController) Get(c *gin.Context) {
	key := c.Param("id")

	var (
		category *entities.Category
		err      error
	)
	if id, convErr := strconv.ParseUint(key, 10, 32); convErr == nil {
		category, err = cc.categories.GetByID(uint(id))
	} else {
		category, err = cc.categories.GetBySlug(key)
	}
	if err != nil {
		respondDomainError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, category)
}

type createCategoryRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Slug     string `json:"slug" binding:"omitempty,max=255"`
	IconName string `json:"iconName" binding:"omitempty,max=100"`
}

func (cc *CategoriesController) Create(c *gin.Context) {
	var req createCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	category := &entities.Category{
		Name:     req.Name,
		Slug:     req.Slug,
		IconName: req.IconName,
	}
	if err := cc.categories.Create(category); err != nil {
		respondDomainError(c, err, "category")
		return
	}

	respondCreated(c, category)
}

type updateCategoryRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=255"`
	Slug     *string `json:"slug" binding:"omitempty,max=255"`
	IconName *string `json:"iconName" binding:"omitempty,max=100"`
}

func (cc *CategoriesController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	category, err := cc.categories.Update(id, categories.UpdateParams{
		Name:     req.Name,
		Slug:     req.Slug,
		IconName: req.IconName,
	})
	if err != nil {
		respondDomainError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, category)
}

// Delete removes a category. Rejected with 409 while books reference it.
func (cc *CategoriesController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := cc.categories.Delete(id); err != nil {
		respondDomainError(c, err, "category")
		return
	}

	respondSuccess(c, "category deleted")
}
