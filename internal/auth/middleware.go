package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"estante/internal/entities"
)

// Context keys for the identity loaded from the session.
const (
	ContextKeyUserID   = "auth_user_id"
	ContextKeyUsername = "auth_username"
	ContextKeyRole     = "auth_role"
)

// Middleware loads session identity into the Gin context and provides the
// route gates.
type Middleware struct {
	sessionManager *SessionManager
}

// NewMiddleware creates the authentication middleware.
func NewMiddleware(sessionManager *SessionManager) *Middleware {
	return &Middleware{sessionManager: sessionManager}
}

// LoadIdentity copies the session's identity projection into the Gin
// context. It never rejects: routes decide with RequireAuthenticated or
// RequireAdmin.
func (m *Middleware) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if data := m.sessionManager.GetSessionData(c.Request); data != nil {
			c.Set(ContextKeyUserID, data.UserID)
			c.Set(ContextKeyUsername, data.Username)
			c.Set(ContextKeyRole, data.Role)
		}
		c.Next()
	}
}

// RequireAuthenticated aborts with 401 when the request carries no session.
func (m *Middleware) RequireAuthenticated() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 for anonymous requests and 403 for
// authenticated non-admins.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserID(c) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}
		if GetUserRole(c) != entities.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "admin access required",
			})
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the authenticated user's ID from the context.
// Returns 0 when the request is anonymous.
func GetUserID(c *gin.Context) uint {
	if id, exists := c.Get(ContextKeyUserID); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetUsername retrieves the authenticated user's username from the context.
func GetUsername(c *gin.Context) string {
	if name, exists := c.Get(ContextKeyUsername); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// GetUserRole retrieves the authenticated user's role from the context.
func GetUserRole(c *gin.Context) entities.UserRole {
	if r, exists := c.Get(ContextKeyRole); exists {
		if role, ok := r.(entities.UserRole); ok {
			return role
		}
	}
	return ""
}
