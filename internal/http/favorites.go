package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estante/internal/database/favorites"
)

// FavoritesController manages the authenticated user's favorites. The
// user id always comes from the session, never from the payload.
type FavoritesController struct {
	favorites *favorites.Repository
}

func NewFavoritesController(favoriteRepo *favorites.Repository) *FavoritesController {
	return &FavoritesController{favorites: favoriteRepo}
}

func (fc *FavoritesController) List(c *gin.Context) {
	list, err := fc.favorites.ListForUser(GetUserID(c))
	if err != nil {
		respondInternalError(c, err, "list favorites")
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": list})
}

type addFavoriteRequest struct {
	BookID uint `json:"bookId" binding:"required"`
}

func (fc *FavoritesController) Add(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	favorite, err := fc.favorites.Add(GetUserID(c), req.BookID)
	if err != nil {
		respondDomainError(c, err, "book")
		return
	}

	respondCreated(c, favorite)
}

func (fc *FavoritesController) Remove(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	if err := fc.favorites.Remove(GetUserID(c), bookID); err != nil {
		respondDomainError(c, err, "favorite")
		return
	}

	respondSuccess(c, "favorite removed")
}

// Check reports whether the current user favorited the book.
func (fc *FavoritesController) Check(c *gin.Context) {
	bookID, ok := parseIDParam(c, "bookId")
	if !ok {
		return
	}

	isFavorite, err := fc.favorites.IsFavorite(GetUserID(c), bookID)
	if err != nil {
		respondInternalError(c, err, "favorite check")
		return
	}

	c.JSON(http.StatusOK, gin.H{"isFavorite": isFavorite})
}
