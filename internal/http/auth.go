package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"estante/internal/auth"
	"estante/internal/database/users"
)

// AuthController handles registration, login and session resolution.
type AuthController struct {
	service        *auth.Service
	sessionManager *auth.SessionManager
	users          *users.Repository
}

func NewAuthController(service *auth.Service, sessionManager *auth.SessionManager, userRepo *users.Repository) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		users:          userRepo,
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"required,max=255"`
}

// Register creates a regular user account and starts a session for it.
func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := ac.service.Register(auth.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken), errors.Is(err, auth.ErrEmailTaken):
			respondConflict(c, err.Error())
		case errors.Is(err, auth.ErrUsernameInvalid),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrPasswordTooLong):
			respondBadRequest(c, err.Error())
		case errors.Is(err, auth.ErrRegistrationDisabled):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		default:
			respondInternalError(c, err, "register")
		}
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "register session")
		return
	}

	respondCreated(c, gin.H{"user": user})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login validates credentials and starts a session. Failures are a single
// generic 401 regardless of cause.
func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := ac.service.Authenticate(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: auth.ErrInvalidCredentials.Error()})
			return
		}
		respondInternalError(c, err, "login")
		return
	}

	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		respondInternalError(c, err, "login session")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout destroys the current session.
func (ac *AuthController) Logout(c *gin.Context) {
	if err := ac.sessionManager.DestroySession(c.Request); err != nil {
		respondInternalError(c, err, "logout")
		return
	}
	respondSuccess(c, "logged out")
}

// Me resolves the current identity. Anonymous requests get {"user": null}
// with 200 so clients can probe without triggering auth errors.
func (ac *AuthController) Me(c *gin.Context) {
	userID := GetUserID(c)
	if userID == 0 {
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	user, err := ac.service.GetUserByID(userID)
	if err != nil {
		// Session outlived the account
		c.JSON(http.StatusOK, gin.H{"user": nil})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

type updateProfileRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=255"`
	AvatarURL *string `json:"avatarUrl" binding:"omitempty,url"`
}

// UpdateProfile lets the authenticated user change their own display
// name and avatar.
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	user, err := ac.users.UpdateProfile(GetUserID(c), req.Name, req.AvatarURL)
	if err != nil {
		respondDomainError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
