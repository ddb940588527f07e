package handlers

import (
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/hashicorp/go-hclog"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
	logger      hclog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, validate *validator.Validate, logger hclog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validate,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", middleware.ValidateBody[models.User](h.validate), h.HandleRegister)
	authRoutes.Post("/login", middleware.ValidateBody[LoginRequest](h.validate), h.HandleLogin)
	authRoutes.Get("/me", auth, h.HandleMe)
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	user := middleware.Body[models.User](c)
	user.ID = ""

	if err := h.authService.RegisterUser(user); err != nil {
		h.logger.Info("registration rejected", "username", user.Username, "error", err)
		return serviceError(c, err, "User")
	}

	// For security, do not return the password hash
	user.Password = ""
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	req := middleware.Body[LoginRequest](c)

	token, user, err := h.authService.LoginUser(req.Username, req.Password)
	if err != nil {
		h.logger.Info("login failed", "username", req.Username, "error", err)
		return serviceError(c, err, "User")
	}

	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"token":   token,
		"user":    user,
	})
}

// HandleMe returns the authenticated user.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.CurrentUser(middleware.Actor(c).UserID)
	if err != nil {
		return serviceError(c, err, "User")
	}
	user.Password = ""
	return c.JSON(fiber.Map{
		"success": true,
		"user":    user,
	})
}
