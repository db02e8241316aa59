package handlers

import (
	"log"

	"resep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler handles the ingredient and tag reference data.
// These routes take no authentication.
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// RegisterRoutes registers the catalog routes with the Fiber app.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	ingredientRoutes := router.Group("/ingredients")
	ingredientRoutes.Get("/", h.HandleSearchIngredients)
	ingredientRoutes.Get("/:id<int>", h.HandleGetIngredient)

	tagRoutes := router.Group("/tags")
	tagRoutes.Get("/", h.HandleGetTags)
	tagRoutes.Get("/:id<int>", h.HandleGetTag)
}

// HandleSearchIngredients retrieves ingredients whose name starts
// with the name query parameter, ordered by name.
func (h *CatalogHandler) HandleSearchIngredients(c *fiber.Ctx) error {
	ingredients, err := h.catalogService.SearchIngredients(c.Query("name"))
	if err != nil {
		log.Printf("Error searching ingredients: %v", err)
		return respondError(c, "Could not retrieve ingredients", err)
	}
	return c.JSON(ingredients)
}

// HandleGetIngredient retrieves a single ingredient by its ID.
func (h *CatalogHandler) HandleGetIngredient(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid ingredient ID",
		})
	}

	ingredient, err := h.catalogService.GetIngredientByID(id)
	if err != nil {
		log.Printf("Error getting ingredient %d: %v", id, err)
		return respondError(c, "Could not retrieve ingredient", err)
	}
	return c.JSON(ingredient)
}

// HandleGetTags retrieves every tag.
func (h *CatalogHandler) HandleGetTags(c *fiber.Ctx) error {
	tags, err := h.catalogService.GetAllTags()
	if err != nil {
		log.Printf("Error getting tags: %v", err)
		return respondError(c, "Could not retrieve tags", err)
	}
	return c.JSON(tags)
}

// HandleGetTag retrieves a single tag by its ID.
func (h *CatalogHandler) HandleGetTag(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid tag ID",
		})
	}

	tag, err := h.catalogService.GetTagByID(id)
	if err != nil {
		log.Printf("Error getting tag %d: %v", id, err)
		return respondError(c, "Could not retrieve tag", err)
	}
	return c.JSON(tag)
}
