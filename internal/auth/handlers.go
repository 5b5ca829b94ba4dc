package auth

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rhinzz/Student-Distraction-Free-Learning-Focus-Mode/internal/entities"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       uint                   `json:"id"`
	Name     string                 `json:"name"`
	Email    string                 `json:"email"`
	Avatar   string                 `json:"avatar"`
	Settings *entities.UserSettings `json:"settings,omitempty"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthController handles the /api/auth endpoints.
type AuthController struct {
	service        *Service
	sessionManager *SessionManager
	rateLimiter    *RateLimiter
}

// NewAuthController creates the controller. sessionManager and rateLimiter may be nil.
func NewAuthController(service *Service, sessionManager *SessionManager, rateLimiter *RateLimiter) *AuthController {
	return &AuthController{
		service:        service,
		sessionManager: sessionManager,
		rateLimiter:    rateLimiter,
	}
}

// RegisterRoutes mounts the endpoints on an /api/auth group.
func (ac *AuthController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/register", ac.Register)
	group.POST("/login", ac.Login)
	group.POST("/logout", ac.Logout)
	group.GET("/csrf", ac.CSRFToken)
}

func (ac *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "message": "invalid request body"})
		return
	}

	user, token, err := ac.service.Register(req.Name, req.Email, req.Password)
	if err != nil {
		ac.respondAuthError(c, err, "register")
		return
	}

	ac.startSession(c, user)
	c.JSON(http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user, false),
		Token:   token,
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "message": "invalid request body"})
		return
	}

	ip := c.ClientIP()
	email := normalizeEmail(req.Email)
	if ac.rateLimiter != nil {
		if allowed, retryAfter := ac.rateLimiter.Allow(ip, email); !allowed {
			c.Header("Retry-After", retryAfter.String())
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"message":     "too many login attempts",
				"retry_after": retryAfter.String(),
			})
			return
		}
	}

	user, token, err := ac.service.Login(req.Email, req.Password)
	if err != nil {
		if ac.rateLimiter != nil && errors.Is(err, ErrInvalidCredentials) {
			if ac.rateLimiter.RecordFailure(ip, email) {
				log.Printf("Login locked out for %s from %s", email, ip)
			}
		}
		ac.respondAuthError(c, err, "login")
		return
	}
	if ac.rateLimiter != nil {
		ac.rateLimiter.RecordSuccess(ip, email)
	}

	ac.startSession(c, user)
	c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    toUserResponse(user, true),
		Token:   token,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	if ac.sessionManager != nil {
		if err := ac.sessionManager.DestroySession(c.Request); err != nil {
			log.Printf("Failed to destroy session: %v", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// CSRFToken returns the token a cookie-authenticated client must echo in X-CSRF-Token.
func (ac *AuthController) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrf_token": GetCSRFToken(c)})
}

func (ac *AuthController) startSession(c *gin.Context, user *entities.User) {
	if ac.sessionManager == nil {
		return
	}
	if err := ac.sessionManager.CreateSession(c.Request, user); err != nil {
		log.Printf("Failed to create session for user %d: %v", user.ID, err)
	}
}

func (ac *AuthController) respondAuthError(c *gin.Context, err error, action string) {
	var validationErr *entities.ValidationError
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation error", "message": validationErr.Error()})
	case errors.Is(err, ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Conflict", "message": "User already exists"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication failed", "message": "Invalid email or password"})
	default:
		log.Printf("Internal error (%s): %v", action, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error", "message": "internal server error"})
	}
}

func toUserResponse(user *entities.User, withSettings bool) UserResponse {
	resp := UserResponse{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Avatar: user.Avatar,
	}
	if withSettings {
		settings := user.Settings
		resp.Settings = &settings
	}
	return resp
}
