package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estante/internal/database/history"
)

// HistoryController manages the authenticated user's reading progress.
type HistoryController struct {
	history *history.Repository
}

func NewHistoryController(historyRepo *history.Repository) *HistoryController {
	return &HistoryController{history: historyRepo}
}

func (hc *HistoryController) List(c *gin.Context) {
	list, err := hc.history.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": list})
}

// GetForBook returns the current user's progress on one book, or 404 when
// they never opened it.
func (hc *HistoryController) GetForBook(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	entry, err := hc.history.GetForBook(GetUserID(c), bookID)
	if err != nil {
		respondDomainError(c, err, "reading history")
		return
	}

	c.JSON(http.StatusOK, entry)
}

type upsertHistoryRequest struct {
	BookID      uint  `json:"bookId" binding:"required"`
	CurrentPage *int  `json:"currentPage" binding:"omitempty,gte=0"`
	TotalPages  *int  `json:"totalPages" binding:"omitempty,gte=0"`
	Progress    *int  `json:"progress" binding:"omitempty,gte=0,lte=100"`
	IsCompleted *bool `json:"isCompleted"`
}

// Upsert records progress, creating the entry on first read and updating
// it afterwards.
func (hc *HistoryController) Upsert(c *gin.Context) {
	var req upsertHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	entry, err := hc.history.Upsert(GetUserID(c), req.BookID, history.UpsertParams{
		CurrentPage: req.CurrentPage,
		TotalPages:  req.TotalPages,
		Progress:    req.Progress,
		IsCompleted: req.IsCompleted,
	})
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}

	c.JSON(http.StatusOK, entry)
}
