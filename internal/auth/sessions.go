package auth

import (
	"encoding/gob"
	"net/http"

	"github.com/alexedwards/scs/gormstore"
	"github.com/alexedwards/scs/v2"
	"gorm.io/gorm"

	"estante/internal/config"
	"estante/internal/entities"
)

// Session data keys. Only the identity projection is stored; everything
// else is read from the database on demand.
const (
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyEmail    = "email"
	SessionKeyName     = "name"
	SessionKeyRole     = "role"
)

func init() {
	gob.Register(entities.UserRole(""))
}

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager persisting sessions through
// GORM, so they live in the same backend as the rest of the data.
func NewSessionManager(db *gorm.DB, cfg config.Auth) (*SessionManager, error) {
	sm := scs.New()

	store, err := gormstore.New(db)
	if err != nil {
		return nil, err
	}
	sm.Store = store

	sm.Lifetime = cfg.SessionLifetime
	sm.IdleTimeout = cfg.SessionLifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteStrictMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession starts a session for a user after successful
// authentication or registration.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	// Renew token to prevent session fixation
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}

	// Stored as int to match GetInt() retrieval
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	sm.Put(r.Context(), SessionKeyUsername, user.Username)
	sm.Put(r.Context(), SessionKeyEmail, user.Email)
	sm.Put(r.Context(), SessionKeyName, user.Name)
	sm.Put(r.Context(), SessionKeyRole, user.Role)

	return nil
}

// DestroySession removes all session data and invalidates the session.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// GetUserID retrieves the user ID from the session.
// Returns 0 if not authenticated.
func (sm *SessionManager) GetUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}

// GetUserRole retrieves the user role from the session.
func (sm *SessionManager) GetUserRole(r *http.Request) entities.UserRole {
	role, ok := sm.Get(r.Context(), SessionKeyRole).(entities.UserRole)
	if !ok {
		return ""
	}
	return role
}

// IsAuthenticated returns true if the request has a valid session.
func (sm *SessionManager) IsAuthenticated(r *http.Request) bool {
	return sm.GetUserID(r) != 0
}

// SessionData is the identity projection a session carries.
type SessionData struct {
	UserID   uint
	Username string
	Email    string
	Name     string
	Role     entities.UserRole
}

// GetSessionData retrieves the whole identity projection at once, or nil
// when the request carries no session.
func (sm *SessionManager) GetSessionData(r *http.Request) *SessionData {
	userID := sm.GetUserID(r)
	if userID == 0 {
		return nil
	}

	return &SessionData{
		UserID:   userID,
		Username: sm.GetString(r.Context(), SessionKeyUsername),
		Email:    sm.GetString(r.Context(), SessionKeyEmail),
		Name:     sm.GetString(r.Context(), SessionKeyName),
		Role:     sm.GetUserRole(r),
	}
}
