package handlers

import (
	"log"
	"strconv"
	"strings"

	"resep/internal/middleware"
	"resep/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	recipeService *services.RecipeService
	validate      *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
		validate:      validator.New(),
	}
}

// RegisterRoutes registers the recipe routes. Listing and detail take
// optional authentication; writes require it.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router, authRequired, authOptional fiber.Handler) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", authOptional, h.HandleListRecipes)
	recipeRoutes.Post("/", authRequired, h.HandleCreateRecipe)
	recipeRoutes.Get("/:id<int>", authOptional, h.HandleGetRecipe)
	recipeRoutes.Put("/:id<int>", authRequired, h.HandleUpdateRecipe)
	recipeRoutes.Delete("/:id<int>", authRequired, h.HandleDeleteRecipe)
}

// HandleListRecipes retrieves recipes matching the query filters:
// author, tags (repeatable slug, OR semantics), is_favorited and
// is_in_shopping_cart. The last two apply only to authenticated
// requests and are ignored otherwise.
func (h *RecipeHandler) HandleListRecipes(c *fiber.Ctx) error {
	filter := services.RecipeListFilter{
		IsFavorited:      c.Query("is_favorited") == "1" || c.Query("is_favorited") == "true",
		IsInShoppingCart: c.Query("is_in_shopping_cart") == "1" || c.Query("is_in_shopping_cart") == "true",
	}
	if author := c.Query("author"); author != "" {
		authorID, err := strconv.ParseUint(author, 10, 32)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Invalid author filter",
			})
		}
		filter.AuthorID = uint(authorID)
	}
	for _, slug := range strings.Split(c.Query("tags"), ",") {
		if slug != "" {
			filter.TagSlugs = append(filter.TagSlugs, slug)
		}
	}

	recipes, err := h.recipeService.ListRecipes(middleware.CurrentUserID(c), filter)
	if err != nil {
		log.Printf("Error listing recipes: %v", err)
		return respondError(c, "Could not retrieve recipes", err)
	}
	return c.JSON(recipes)
}

// HandleGetRecipe retrieves a single recipe by its ID.
func (h *RecipeHandler) HandleGetRecipe(c *fiber.Ctx) error {
	recipeID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid recipe ID",
		})
	}

	recipe, err := h.recipeService.GetRecipe(middleware.CurrentUserID(c), recipeID)
	if err != nil {
		log.Printf("Error getting recipe %d: %v", recipeID, err)
		return respondError(c, "Could not retrieve recipe", err)
	}
	return c.JSON(recipe)
}

// HandleCreateRecipe creates a new recipe with its ingredient and tag
// associations in one transaction.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing recipe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidationErrors(c, err)
	}

	recipe, err := h.recipeService.CreateRecipe(c.Context(), middleware.CurrentUserID(c), input)
	if err != nil {
		log.Printf("Error creating recipe: %v", err)
		return respondError(c, "Could not create recipe", err)
	}
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// HandleUpdateRecipe replaces a recipe wholesale. Only the author or
// an administrator may update.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	recipeID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid recipe ID",
		})
	}

	var input services.RecipeInput
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing recipe request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(input); err != nil {
		return respondValidationErrors(c, err)
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Context(), middleware.CurrentUserID(c), recipeID, input)
	if err != nil {
		log.Printf("Error updating recipe %d: %v", recipeID, err)
		return respondError(c, "Could not update recipe", err)
	}
	return c.JSON(recipe)
}

// HandleDeleteRecipe deletes a recipe. Only the author or an
// administrator may delete.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	recipeID, ok := idParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid recipe ID",
		})
	}

	if err := h.recipeService.DeleteRecipe(c.Context(), middleware.CurrentUserID(c), recipeID); err != nil {
		log.Printf("Error deleting recipe %d: %v", recipeID, err)
		return respondError(c, "Could not delete recipe", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func idParam(c *fiber.Ctx) (uint, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return 0, false
	}
	return uint(id), true
}
