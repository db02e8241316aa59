package repositories

import "resep/internal/models"

// CatalogRepository defines the interface for ingredient and tag
// reference data access.
type CatalogRepository interface {
	SearchIngredients(namePrefix string) ([]models.Ingredient, error)
	GetIngredientByID(id uint) (*models.Ingredient, error)
	GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error)
	CreateIngredients(ingredients []models.Ingredient) error
	GetAllTags() ([]models.Tag, error)
	GetTagByID(id uint) (*models.Tag, error)
	GetTagsByIDs(ids []uint) ([]models.Tag, error)
	CreateTags(tags []models.Tag) error
}
