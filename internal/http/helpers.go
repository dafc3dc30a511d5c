package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"estante/internal/auth"
	"estante/internal/database"
)

// ErrorResponse is the standard error body for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"` // field-level validation messages
}

// SuccessResponse is a standard success body with a message.
type SuccessResponse struct {
	Message string `json:"message"`
}

// PaginatedResponse wraps list data with pagination metadata.
type PaginatedResponse struct {
	Data    any   `json:"data"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
	Offset  int   `json:"offset"`
	HasMore bool  `json:"hasMore"`
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

func respondConflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{Error: message})
}

// respondInternalError logs the error server-side and returns a generic
// message. Internals never reach the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondDomainError translates repository sentinel errors into their HTTP
// status. Anything unrecognized is an internal error.
func respondDomainError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondNotFound(c, resource)
	case errors.Is(err, database.ErrConflict):
		respondConflict(c, err.Error())
	case errors.Is(err, database.ErrInUse):
		respondConflict(c, err.Error())
	case errors.Is(err, database.ErrLastAdmin):
		respondBadRequest(c, "cannot remove the last admin")
	case errors.Is(err, database.ErrSelfDelete):
		respondBadRequest(c, "cannot delete your own account")
	default:
		respondInternalError(c, err, resource)
	}
}

// parseIDParam extracts an unsigned integer path parameter. On failure it
// writes a 400 response and returns false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// GetUserID extracts the authenticated user's ID from the Gin context.
// Returns 0 for anonymous requests.
func GetUserID(c *gin.Context) uint {
	return auth.GetUserID(c)
}
