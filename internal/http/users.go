package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estante/internal/database/users"
	"estante/internal/entities"
)

// UsersController exposes the admin user management operations.
type UsersController struct {
	users *users.Repository
}

func NewUsersController(userRepo *users.Repository) *UsersController {
	return &UsersController{users: userRepo}
}

func (uc *UsersController) List(c *gin.Context) {
	list, err := uc.users.GetAll()
	if err != nil {
		respondInternalError(c, err, "list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": list})
}

type updateRoleRequest struct {
	Role entities.UserRole `json:"role" binding:"required,oneof=user admin"`
}

// UpdateRole changes a user's role. Demoting the sole admin is rejected.
func (uc *UsersController) UpdateRole(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := uc.users.UpdateRole(id, req.Role)
	if err != nil {
		respondDomainError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Delete removes a user and their favorites, history and comments.
// Admins cannot delete themselves or the last admin account.
func (uc *UsersController) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := uc.users.Delete(id, GetUserID(c)); err != nil {
		respondDomainError(c, err, "user")
		return
	}

	respondSuccess(c, "user deleted")
}
