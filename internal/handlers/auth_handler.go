package handlers

import (
	"friendgift/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// CredentialsRequest is the body of both register and login.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse carries a freshly issued bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("invalid register body", zap.Error(err))
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	token, err := h.authService.Register(req.Username, req.Password)
	if err != nil {
		return fail(c, h.logger, err, "Registration failed")
	}
	return c.Status(fiber.StatusCreated).JSON(TokenResponse{Token: token})
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		h.logger.Debug("invalid login body", zap.Error(err))
		return message(c, fiber.StatusUnauthorized, "Authentication failed")
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		return fail(c, h.logger, err, "Authentication failed")
	}
	return c.JSON(TokenResponse{Token: token})
}
