package services

import (
	"resep/internal/models"
	"resep/internal/repositories"
)

// CatalogService handles business logic for the ingredient and tag
// reference data.
type CatalogService struct {
	repo repositories.CatalogRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// SearchIngredients retrieves ingredients by name prefix, for
// autocomplete when composing a recipe.
func (s *CatalogService) SearchIngredients(namePrefix string) ([]models.Ingredient, error) {
	return s.repo.SearchIngredients(namePrefix)
}

// GetIngredientByID retrieves a single ingredient.
func (s *CatalogService) GetIngredientByID(id uint) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetIngredientByID(id)
	if err != nil {
		return nil, translateStoreError(err, "ingredient not found", "")
	}
	return ingredient, nil
}

// GetAllTags retrieves every tag.
func (s *CatalogService) GetAllTags() ([]models.Tag, error) {
	return s.repo.GetAllTags()
}

// GetTagByID retrieves a single tag.
func (s *CatalogService) GetTagByID(id uint) (*models.Tag, error) {
	tag, err := s.repo.GetTagByID(id)
	if err != nil {
		return nil, translateStoreError(err, "tag not found", "")
	}
	return tag, nil
}
