package handlers

import (
	"friendgift/internal/middleware"
	"friendgift/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// IdeaHandler handles HTTP requests for gift ideas under a friend.
type IdeaHandler struct {
	service *services.FriendService
	logger  *zap.Logger
}

// NewIdeaHandler creates a new IdeaHandler.
func NewIdeaHandler(service *services.FriendService, logger *zap.Logger) *IdeaHandler {
	return &IdeaHandler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers the idea routes behind the authenticated router.
func (h *IdeaHandler) RegisterRoutes(router fiber.Router) {
	ideaRoutes := router.Group("/friends/:friendId/ideas")
	ideaRoutes.Get("/", h.HandleListIdeas)
	ideaRoutes.Post("/", h.HandleCreateIdea)
}

// IdeaRequest is the body of idea creation.
type IdeaRequest struct {
	Text string `json:"text"`
}

// HandleListIdeas returns a friend's ideas, newest first. Unknown friends
// produce an empty list.
func (h *IdeaHandler) HandleListIdeas(c *fiber.Ctx) error {
	ideas, err := h.service.ListIdeas(middleware.CurrentUser(c), friendIDParam(c))
	if err != nil {
		return fail(c, h.logger, err, "Could not retrieve ideas")
	}
	return c.JSON(ideas)
}

// HandleCreateIdea attaches an idea to one of the caller's friends.
func (h *IdeaHandler) HandleCreateIdea(c *fiber.Ctx) error {
	var req IdeaRequest
	if err := c.BodyParser(&req); err != nil {
		return message(c, fiber.StatusBadRequest, "Invalid request body")
	}

	idea, err := h.service.AddIdea(middleware.CurrentUser(c), friendIDParam(c), req.Text)
	if err != nil {
		return fail(c, h.logger, err, "Invalid idea")
	}
	return c.Status(fiber.StatusCreated).JSON(idea)
}
