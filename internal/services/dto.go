package services

import (
	"time"

	"resep/internal/models"
)

// RecipeIngredientInput references an ingredient with the amount used.
type RecipeIngredientInput struct {
	ID     uint `json:"id" validate:"required"`
	Amount int  `json:"amount" validate:"required,min=1"`
}

// RecipeInput is the request body for creating or replacing a recipe.
// Image is a base64 data URI; it is required on create and optional on
// update (an empty value keeps the current image).
type RecipeInput struct {
	Name        string                  `json:"name" validate:"required,max=200"`
	Image       string                  `json:"image"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"required,min=1"`
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,dive"`
	Tags        []uint                  `json:"tags" validate:"required,min=1"`
}

// RecipeListFilter is the recognized set of listing filters.
type RecipeListFilter struct {
	AuthorID         uint
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
}

// UserResponse is a user profile as seen by the requesting user.
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// RecipeSummary is the short recipe representation returned by the
// favorite and shopping-cart toggles and embedded in author profiles.
type RecipeSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// AuthorWithRecipes is an author profile together with their recipes,
// returned by the subscribe toggle and the subscriptions listing.
type AuthorWithRecipes struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// IngredientInRecipe is an ingredient association in a recipe detail.
type IngredientInRecipe struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// RecipeResponse is the full recipe representation.
type RecipeResponse struct {
	ID               uint                 `json:"id"`
	Tags             []models.Tag         `json:"tags"`
	Author           UserResponse         `json:"author"`
	Ingredients      []IngredientInRecipe `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
	CreatedAt        time.Time            `json:"created_at"`
}

func summary(recipe *models.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

func profile(user *models.User, isSubscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}
