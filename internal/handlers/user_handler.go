package handlers

import (
	"log"
	"strconv"

	"resep/internal/middleware"
	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles user profiles, the subscriptions listing, and
// the subscribe toggle.
type UserHandler struct {
	relationService *services.RelationService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(relationService *services.RelationService) *UserHandler {
	return &UserHandler{
		relationService: relationService,
	}
}

// RegisterRoutes registers the user routes. The static /me and
// /subscriptions routes are registered before /:id so they are not
// swallowed by the parameter route.
func (h *UserHandler) RegisterRoutes(router fiber.Router, authRequired, authOptional fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/me", authRequired, h.HandleMe)
	userRoutes.Get("/subscriptions", authRequired, h.HandleSubscriptions)
	userRoutes.Get("/:id<int>", authOptional, h.HandleGetProfile)
	userRoutes.Post("/:id<int>/subscribe", authRequired, h.HandleSubscribe)
	userRoutes.Delete("/:id<int>/subscribe", authRequired, h.HandleUnsubscribe)
}

// HandleMe returns the current user's own profile.
func (h *UserHandler) HandleMe(c *fiber.Ctx) error {
	userID := middleware.CurrentUserID(c)
	user, err := h.relationService.GetProfile(userID, userID)
	if err != nil {
		log.Printf("Error getting own profile %d: %v", userID, err)
		return respondError(c, "Could not retrieve profile", err)
	}
	return c.JSON(user)
}

// HandleGetProfile returns a user profile with the is_subscribed flag
// computed for the requesting user.
func (h *UserHandler) HandleGetProfile(c *fiber.Ctx) error {
	userID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}

	user, err := h.relationService.GetProfile(middleware.CurrentUserID(c), userID)
	if err != nil {
		log.Printf("Error getting profile %d: %v", userID, err)
		return respondError(c, "Could not retrieve profile", err)
	}
	return c.JSON(user)
}

// HandleSubscriptions lists the authors the current user follows,
// each with their recipes. The recipes_limit query parameter caps the
// embedded recipe list.
func (h *UserHandler) HandleSubscriptions(c *fiber.Ctx) error {
	authors, err := h.relationService.Subscriptions(middleware.CurrentUserID(c), recipesLimit(c))
	if err != nil {
		log.Printf("Error listing subscriptions: %v", err)
		return respondError(c, "Could not retrieve subscriptions", err)
	}
	return c.JSON(authors)
}

// HandleSubscribe subscribes the current user to the author.
func (h *UserHandler) HandleSubscribe(c *fiber.Ctx) error {
	authorID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}

	author, err := h.relationService.Subscribe(middleware.CurrentUserID(c), authorID, recipesLimit(c))
	if err != nil {
		log.Printf("Error subscribing to user %d: %v", authorID, err)
		return respondError(c, "Could not subscribe", err)
	}
	return c.Status(fiber.StatusCreated).JSON(author)
}

// HandleUnsubscribe removes the current user's subscription to the
// author. Removing an absent subscription is a 404.
func (h *UserHandler) HandleUnsubscribe(c *fiber.Ctx) error {
	authorID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid user ID",
		})
	}

	if err := h.relationService.Unsubscribe(middleware.CurrentUserID(c), authorID); err != nil {
		log.Printf("Error unsubscribing from user %d: %v", authorID, err)
		return respondError(c, "Could not unsubscribe", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func recipesLimit(c *fiber.Ctx) int {
	limit, err := strconv.Atoi(c.Query("recipes_limit", "0"))
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}
