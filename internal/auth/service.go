package auth

import (
	"errors"
	"fmt"
	"log"
	"regexp"

	"estante/internal/config"
	"estante/internal/database"
	"estante/internal/database/settings"
	"estante/internal/database/users"
	"estante/internal/entities"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,64}$`)

var (
	// ErrInvalidCredentials is deliberately generic so login responses
	// never reveal whether the username or the password was wrong.
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrUsernameTaken        = errors.New("username is already taken")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrUsernameInvalid      = errors.New("username must be 3-64 characters, alphanumeric with dot/underscore/hyphen")
	ErrRegistrationDisabled = errors.New("registration is disabled")
)

// Service handles registration and credential checks.
type Service struct {
	users    *users.Repository
	settings *settings.Repository
	config   config.Auth
}

// NewService creates a new authentication service.
func NewService(userRepo *users.Repository, settingsRepo *settings.Repository, cfg config.Auth) *Service {
	return &Service{
		users:    userRepo,
		settings: settingsRepo,
		config:   cfg,
	}
}

// RegisterParams carries the fields a self-service registration accepts.
// Role is not among them: registered accounts always start as regular users.
type RegisterParams struct {
	Username string
	Email    string
	Password string
	Name     string
}

// Register creates a regular user account. Username and email uniqueness
// are reported per field so the client can highlight the right input.
func (s *Service) Register(params RegisterParams) (*entities.User, error) {
	if !usernamePattern.MatchString(params.Username) {
		return nil, ErrUsernameInvalid
	}

	siteSettings, err := s.settings.Get()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if !siteSettings.AllowRegistration {
		return nil, ErrRegistrationDisabled
	}

	if _, err := s.users.GetByUsername(params.Username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.users.GetByEmail(params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := HashPassword(params.Password, s.config.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Username:     params.Username,
		Email:        params.Email,
		PasswordHash: passwordHash,
		Name:         params.Name,
		Role:         entities.UserRoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// Authenticate validates credentials against the username or email and
// returns the user. All failures map to ErrInvalidCredentials.
func (s *Service) Authenticate(login, password string) (*entities.User, error) {
	user, err := s.users.GetByUsername(login)
	if errors.Is(err, database.ErrNotFound) {
		user, err = s.users.GetByEmail(login)
	}
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetByID(id)
}

// EnsureAdmin seeds the bootstrap admin account when no admin exists.
// Called once at startup; a no-op when an admin is already present or
// when no admin credentials are configured.
func (s *Service) EnsureAdmin(cfg config.Admin) error {
	if cfg.Username == "" || cfg.Password == "" {
		return nil
	}

	count, err := s.users.CountAdmins()
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	passwordHash, err := HashPassword(cfg.Password, s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &entities.User{
		Username:     cfg.Username,
		Email:        cfg.Email,
		PasswordHash: passwordHash,
		Name:         cfg.Username,
		Role:         entities.UserRoleAdmin,
	}
	if err := s.users.Create(admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}

	log.Printf("Created bootstrap admin user %q", cfg.Username)
	return nil
}
