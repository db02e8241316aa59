package repositories

import "resep/internal/models"

// RecipeFilter holds the recognized listing filters. Zero values mean
// "not set"; FavoritedBy and InCartOf carry the requesting user's ID
// when the corresponding flag is on.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
}

// RecipeRepository defines the interface for recipe data access.
// Create and Replace commit the recipe row together with its
// ingredient and tag association rows, or nothing at all.
type RecipeRepository interface {
	Create(recipe *models.Recipe, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error
	Replace(recipe *models.Recipe, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error
	Delete(id uint) error
	GetByID(id uint) (*models.Recipe, error)
	List(filter RecipeFilter) ([]models.Recipe, error)
	ListByAuthor(authorID uint, limit int) ([]models.Recipe, error)
	CountByAuthor(authorID uint) (int64, error)
}
