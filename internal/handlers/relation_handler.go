package handlers

import (
	"log"

	"resep/internal/middleware"
	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RelationHandler handles the favorite and shopping-cart toggles and
// the shopping-list download. All routes require authentication.
type RelationHandler struct {
	relationService *services.RelationService
}

// NewRelationHandler creates a new RelationHandler.
func NewRelationHandler(relationService *services.RelationService) *RelationHandler {
	return &RelationHandler{
		relationService: relationService,
	}
}

// RegisterRoutes registers the relation routes. Must run before the
// recipe routes so /recipes/download_shopping_cart wins over the
// /recipes/:id parameter route.
func (h *RelationHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	router.Get("/recipes/download_shopping_cart", authRequired, h.HandleDownloadShoppingCart)
	router.Post("/recipes/:id<int>/favorite", authRequired, h.HandleAddFavorite)
	router.Delete("/recipes/:id<int>/favorite", authRequired, h.HandleRemoveFavorite)
	router.Post("/recipes/:id<int>/shopping_cart", authRequired, h.HandleAddToCart)
	router.Delete("/recipes/:id<int>/shopping_cart", authRequired, h.HandleRemoveFromCart)
}

// HandleAddFavorite favorites the recipe for the current user.
func (h *RelationHandler) HandleAddFavorite(c *fiber.Ctx) error {
	return h.add(c, h.relationService.AddFavorite, "Could not add recipe to favorites")
}

// HandleRemoveFavorite removes the recipe from the current user's
// favorites. Removing an absent favorite is a 404, not a no-op.
func (h *RelationHandler) HandleRemoveFavorite(c *fiber.Ctx) error {
	return h.remove(c, h.relationService.RemoveFavorite, "Could not remove recipe from favorites")
}

// HandleAddToCart puts the recipe in the current user's shopping cart.
func (h *RelationHandler) HandleAddToCart(c *fiber.Ctx) error {
	return h.add(c, h.relationService.AddToCart, "Could not add recipe to shopping cart")
}

// HandleRemoveFromCart takes the recipe out of the current user's
// shopping cart.
func (h *RelationHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	return h.remove(c, h.relationService.RemoveFromCart, "Could not remove recipe from shopping cart")
}

// HandleDownloadShoppingCart aggregates the current user's cart and
// returns the rendered shopping list as a PDF attachment.
func (h *RelationHandler) HandleDownloadShoppingCart(c *fiber.Ctx) error {
	document, err := h.relationService.RenderShoppingList(middleware.CurrentUserID(c))
	if err != nil {
		log.Printf("Error rendering shopping list: %v", err)
		return respondError(c, "Could not render shopping list", err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="shoplist.pdf"`)
	return c.Send(document)
}

func (h *RelationHandler) add(c *fiber.Ctx, action func(userID, recipeID uint) (*services.RecipeSummary, error), failMsg string) error {
	recipeID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid recipe ID",
		})
	}

	recipe, err := action(middleware.CurrentUserID(c), recipeID)
	if err != nil {
		log.Printf("Error toggling relation for recipe %d: %v", recipeID, err)
		return respondError(c, failMsg, err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

func (h *RelationHandler) remove(c *fiber.Ctx, action func(userID, recipeID uint) error, failMsg string) error {
	recipeID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid recipe ID",
		})
	}

	if err := action(middleware.CurrentUserID(c), recipeID); err != nil {
		log.Printf("Error removing relation for recipe %d: %v", recipeID, err)
		return respondError(c, failMsg, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
