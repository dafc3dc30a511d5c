package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estante/internal/database/authors"
	"estante/internal/database/books"
	"estante/internal/database/categories"
	"estante/internal/database/series"
	"estante/internal/entities"
)

// EntityRef is the {name, slug} projection of a related entity embedded in
// list and detail responses.
type EntityRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// BookResponse is a book enriched with its relation projections.
type BookResponse struct {
	entities.Book
	AuthorRef   *EntityRef `json:"author,omitempty"`
	CategoryRef *EntityRef `json:"category,omitempty"`
}

func toBookResponse(book entities.Book) BookResponse {
	resp := BookResponse{Book: book}
	if book.Author != nil {
		resp.AuthorRef = &EntityRef{ID: book.Author.ID, Name: book.Author.Name, Slug: book.Author.Slug}
	}
	if book.Category != nil {
		resp.CategoryRef = &EntityRef{ID: book.Category.ID, Name: book.Category.Name, Slug: book.Category.Slug}
	}
	return resp
}

func toBookResponses(list []entities.Book) []BookResponse {
	out := make([]BookResponse, 0, len(list))
	for _, book := range list {
		out = append(out, toBookResponse(book))
	}
	return out
}

// BooksController serves the public catalog and the admin book mutations.
type BooksController struct {
	books      *books.Repository
	authors    *authors.Repository
	categories *categories.Repository
	series     *series.Repository
}

func NewBooksController(bookRepo *books.Repository, authorRepo *authors.Repository, categoryRepo *categories.Repository, seriesRepo *series.Repository) *BooksController {
	return &BooksController{
		books:      bookRepo,
		authors:    authorRepo,
		categories: categoryRepo,
		series:     seriesRepo,
	}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// List returns books matching the query filters with pagination metadata.
// category and author accept a slug or a numeric id.
func (bc *BooksController) List(c *gin.Context) {
	filter := books.Filter{
		Search: c.Query("search"),
		Limit:  defaultPageSize,
	}

	if v := c.Query("category"); v != "" {
		id, ok := bc.resolveCategory(c, v)
		if !ok {
			return
		}
		filter.CategoryID = id
	}
	if v := c.Query("author"); v != "" {
		id, ok := bc.resolveAuthor(c, v)
		if !ok {
			return
		}
		filter.AuthorID = id
	}
	if v := c.Query("series"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondBadRequest(c, "invalid series")
			return
		}
		filter.SeriesID = uint(id)
	}

	for name, target := range map[string]**bool{
		"featured": &filter.Featured,
		"new":      &filter.New,
		"free":     &filter.Free,
	} {
		if v := c.Query(name); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				respondBadRequest(c, "invalid "+name)
				return
			}
			*target = &parsed
		}
	}

	if v := c.Query("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 1 {
			respondBadRequest(c, "invalid limit")
			return
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		filter.Limit = limit
	}
	if v := c.Query("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			respondBadRequest(c, "invalid offset")
			return
		}
		filter.Offset = offset
	}

	list, total, err := bc.books.List(filter)
	if err != nil {
		respondInternalError(c, err, "list books")
		return
	}

	c.JSON(http.StatusOK, PaginatedResponse{
		Data:    toBookResponses(list),
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		HasMore: int64(filter.Offset+len(list)) < total,
	})
}

// Get fetches one book by slug or numeric id.
func (bc *BooksController) Get(c *gin.Context) {
	key := c.Param("id")

	var (
		book *entities.Book
		err  error
	)
	if id, convErr := strconv.ParseUint(key, 10, 32); convErr == nil {
		book, err = bc.books.GetByID(uint(id))
	} else {
		book, err = bc.books.GetBySlug(key)
	}
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}

type createBookRequest struct {
	Title        string  `json:"title" binding:"required,max=500"`
	Slug         string  `json:"slug" binding:"omitempty,max=500"`
	AuthorID     uint    `json:"authorId" binding:"required"`
	CategoryID   uint    `json:"categoryId" binding:"required"`
	Description  string  `json:"description"`
	CoverURL     string  `json:"coverUrl" binding:"omitempty,url"`
	EpubURL      string  `json:"epubUrl" binding:"omitempty,url"`
	PdfURL       string  `json:"pdfUrl" binding:"omitempty,url"`
	AmazonURL    string  `json:"amazonUrl" binding:"omitempty,url"`
	Format       string  `json:"format" binding:"omitempty,oneof=epub pdf both"`
	PageCount    int     `json:"pageCount" binding:"omitempty,gte=0"`
	ISBN         string  `json:"isbn" binding:"omitempty,max=20"`
	PublishYear  int     `json:"publishYear"`
	Publisher    string  `json:"publisher" binding:"omitempty,max=255"`
	Language     string  `json:"language" binding:"omitempty,max=10"`
	IsFeatured   bool    `json:"isFeatured"`
	IsNew        bool    `json:"isNew"`
	IsFree       bool    `json:"isFree"`
	SeriesID     *uint   `json:"seriesId"`
	VolumeNumber *int    `json:"volumeNumber"`
}

// Create adds a book to the catalog. Admin only.
func (bc *BooksController) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	book := &entities.Book{
		Title:        req.Title,
		Slug:         req.Slug,
		AuthorID:     req.AuthorID,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		CoverURL:     req.CoverURL,
		EpubURL:      req.EpubURL,
		PdfURL:       req.PdfURL,
		AmazonURL:    req.AmazonURL,
		Format:       entities.BookFormat(req.Format),
		PageCount:    req.PageCount,
		ISBN:         req.ISBN,
		PublishYear:  req.PublishYear,
		Publisher:    req.Publisher,
		Language:     req.Language,
		IsFeatured:   req.IsFeatured,
		IsNew:        req.IsNew,
		IsFree:       req.IsFree,
		SeriesID:     req.SeriesID,
		VolumeNumber: req.VolumeNumber,
	}
	if err := bc.books.Create(book); err != nil {
		respondDomainError(c, err, "book")
		return
	}

	respondCreated(c, toBookResponse(*book))
}

type updateBookRequest struct {
	Title        *string `json:"title" binding:"omitempty,max=500"`
	Slug         *string `json:"slug" binding:"omitempty,max=500"`
	AuthorID     *uint   `json:"authorId"`
	CategoryID   *uint   `json:"categoryId"`
	Description  *string `json:"description"`
	CoverURL     *string `json:"coverUrl" binding:"omitempty,url"`
	EpubURL      *string `json:"epubUrl" binding:"omitempty,url"`
	PdfURL       *string `json:"pdfUrl" binding:"omitempty,url"`
	AmazonURL    *string `json:"amazonUrl" binding:"omitempty,url"`
	Format       *string `json:"format" binding:"omitempty,oneof=epub pdf both"`
	PageCount    *int    `json:"pageCount" binding:"omitempty,gte=0"`
	ISBN         *string `json:"isbn" binding:"omitempty,max=20"`
	PublishYear  *int    `json:"publishYear"`
	Publisher    *string `json:"publisher" binding:"omitempty,max=255"`
	Language     *string `json:"language" binding:"omitempty,max=10"`
	IsFeatured   *bool   `json:"isFeatured"`
	IsNew        *bool   `json:"isNew"`
	IsFree       *bool   `json:"isFree"`
	SeriesID     *uint   `json:"seriesId"`
	VolumeNumber *int    `json:"volumeNumber"`
}

// Update applies a partial update. Sending seriesId 0 detaches the book
// from its series. Admin only.
func (bc *BooksController) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	params := books.UpdateParams{
		Title:        req.Title,
		Slug:         req.Slug,
		AuthorID:     req.AuthorID,
		CategoryID:   req.CategoryID,
		Description:  req.Description,
		CoverURL:     req.CoverURL,
		EpubURL:      req.EpubURL,
		PdfURL:       req.PdfURL,
		AmazonURL:    req.AmazonURL,
		PageCount:    req.PageCount,
		ISBN:         req.ISBN,
		PublishYear:  req.PublishYear,
		Publisher:    req.Publisher,
		Language:     req.Language,
		IsFeatured:   req.IsFeatured,
		IsNew:        req.IsNew,
		IsFree:       req.IsFree,
		SeriesID:     req.SeriesID,
		VolumeNumber: req.VolumeNumber,
	}
	if req.Format != nil {
		format := entities.BookFormat(*req.Format)
		params.Format = &format
	}

	book, err := bc.books.Update(id, params)
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}

	c.JSON(http.StatusOK, toBookResponse(*book))
}

// Delete removes a book along with its favorites, history and comments.
// Admin only.
func (bc *BooksController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.Delete(id); err != nil {
		respondDomainError(c, err, "book")
		return
	}

	respondSuccess(c, "book deleted")
}

// Download records one download against the book's counter.
func (bc *BooksController) Download(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := bc.books.IncrementDownloadCount(id); err != nil {
		respondDomainError(c, err, "book")
		return
	}

	respondSuccess(c, "download recorded")
}

func (bc *BooksController) resolveCategory(c *gin.Context, key string) (uint, bool) {
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		return uint(id), true
	}
	category, err := bc.categories.GetBySlug(key)
	if err != nil {
		respondDomainError(c, err, "category")
		return 0, false
	}
	return category.ID, true
}

func (bc *BooksController) resolveAuthor(c *gin.Context, key string) (uint, bool) {
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		return uint(id), true
	}
	author, err := bc.authors.GetBySlug(key)
	if err != nil {
		respondDomainError(c, err, "author")
		return 0, false
	}
	return author.ID, true
}
