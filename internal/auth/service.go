package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/config"
	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

const minNameLength = 2

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrAuthRequired       = errors.New("authentication required")
)

// UserStore defines the user data access the service needs.
type UserStore interface {
	CreateUser(user *entities.User) error
	GetUserByEmail(email string) (*entities.User, error)
	GetUserByID(id uint) (*entities.User, error)
	EmailExists(email string) (bool, error)
	TouchLastLogin(id uint, at time.Time) error
}

// Service handles registration, login and token validation.
type Service struct {
	users  UserStore
	tokens *TokenIssuer
	config config.Auth
}

// NewService creates a new authentication service.
func NewService(users UserStore, tokens *TokenIssuer, cfg config.Auth) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		config: cfg,
	}
}

// Register creates an account and returns it with a fresh bearer token.
func (s *Service) Register(name, email, password string) (*entities.User, string, error) {
	name = entities.SanitizeInput(name)
	email = normalizeEmail(email)

	if err := entities.RequireText("name", name); err != nil {
		return nil, "", err
	}
	if err := entities.RequireText("email", email); err != nil {
		return nil, "", err
	}
	if password == "" {
		return nil, "", entities.NewValidationError("password", "is required")
	}
	if utf8.RuneCountInString(name) < minNameLength {
		return nil, "", entities.NewValidationError("name", "must be at least 2 characters")
	}
	if len(email) > 254 || !emailPattern.MatchString(email) {
		return nil, "", entities.NewValidationError("email", "invalid email format")
	}

	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if exists {
		return nil, "", ErrUserExists
	}

	passwordHash, err := HashPassword(password, s.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooShort) || errors.Is(err, ErrPasswordTooLong) {
			return nil, "", entities.NewValidationError("password", err.Error())
		}
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entities.User{
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		Avatar:       Avatar(name),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials, records the login time and issues a token.
// Unknown emails and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(email, password string) (*entities.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", entities.NewValidationError("", "email and password are required")
	}

	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find user: %w", err)
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	now := time.Now()
	if err := s.users.TouchLastLogin(user.ID, now); err != nil {
		return nil, "", fmt.Errorf("failed to record login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// ValidateToken checks a bearer token and returns its user.
func (s *Service) ValidateToken(token string) (*entities.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (s *Service) GetUserByID(id uint) (*entities.User, error) {
	return s.users.GetUserByID(id)
}

// IsAuthEnabled returns true if authentication is required.
func (s *Service) IsAuthEnabled() bool {
	return s.config.Mode == config.AuthModeLocal
}

// Avatar returns the upper-cased first letter of name.
func Avatar(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return string(unicode.ToUpper(r))
	}
	return ""
}

func normalizeEmail(email string) string {
	return strings.ToLower(entities.SanitizeInput(email))
}
