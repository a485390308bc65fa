package handlers

import (
	"strings"

	"friendgift/internal/middleware"
	"friendgift/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// FriendHandler handles HTTP requests for the caller's friends.
type FriendHandler struct {
	service *services.FriendService
	logger  *zap.Logger
}

// NewFriendHandler creates a new FriendHandler.
func NewFriendHandler(service *services.FriendService, logger *zap.Logger) *FriendHandler {
	return &FriendHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the friend routes. The router must already be
// behind middleware.AuthRequired.
func (h *FriendHandler) RegisterRoutes(router fiber.Router) {
	friendRoutes := router.Group("/friends")
	friendRoutes.Get("/", h.HandleListFriends)
	friendRoutes.Post("/", h.HandleCreateFriend)
	friendRoutes.Put("/:friendId", h.HandleUpdateFriend)
	friendRoutes.Delete("/:friendId", h.HandleDeleteFriend)
}

// FriendRequest is the body of create and rename.
type FriendRequest struct {
	Name string `json:"name"`
}

// HandleListFriends returns the caller's friends, oldest first.
func (h *FriendHandler) HandleListFriends(c *fiber.Ctx) error {
	friends, err := h.service.ListFriends(middleware.CurrentUser(c))
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve friends")
	}
	return c.JSON(friends)
}

// HandleCreateFriend adds a friend for the caller.
func (h *FriendHandler) HandleCreateFriend(c *fiber.Ctx) error {
	var req FriendRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	friend, err := h.service.AddFriend(middleware.CurrentUser(c), req.Name)
	if err != nil {
		return fail(c, h.logger, err, "Invalid friend name")
	}
	return c.Status(fiber.StatusCreated).JSON(friend)
}

// HandleUpdateFriend renames one of the caller's friends.
func (h *FriendHandler) HandleUpdateFriend(c *fiber.Ctx) error {
	friendID := friendIDParam(c)
	if strings.TrimSpace(friendID) == "" {
		return message(c, fiber.StatusBadRequest, "Friend id is required")
	}
	var req FriendRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	friend, err := h.service.UpdateFriend(middleware.CurrentUser(c), friendID, req.Name)
	if err != nil {
		return fail(c, h.logger, err, "Could not update friend")
	}
	return c.JSON(friend)
}

// HandleDeleteFriend removes one of the caller's friends along with its ideas.
func (h *FriendHandler) HandleDeleteFriend(c *fiber.Ctx) error {
	friendID := friendIDParam(c)
	if strings.TrimSpace(friendID) == "" {
		return message(c, fiber.StatusBadRequest, "Friend id is required")
	}

	deleted, err := h.service.DeleteFriend(middleware.CurrentUser(c), friendID)
	if err != nil {
		return fail(c, h.logger, err, "Could not delete friend")
	}
	if !deleted {
		return message(c, fiber.StatusNotFound, "Friend not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
