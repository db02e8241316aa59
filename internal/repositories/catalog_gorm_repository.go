package repositories

import (
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCatalogRepository is a GORM implementation of CatalogRepository.
type GORMCatalogRepository struct {
	db *gorm.DB
}

// NewGORMCatalogRepository creates a new instance of GORMCatalogRepository.
func NewGORMCatalogRepository(db *gorm.DB) *GORMCatalogRepository {
	return &GORMCatalogRepository{
		db: db,
	}
}

// SearchIngredients retrieves ingredients whose name starts with the
// given prefix, ordered by name. An empty prefix returns everything.
func (r *GORMCatalogRepository) SearchIngredients(namePrefix string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := r.db.Order("name asc")
	if namePrefix != "" {
		query = query.Where("name LIKE ?", namePrefix+"%")
	}
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to search ingredients: %w", err)
	}
	return ingredients, nil
}

// GetIngredientByID retrieves a single ingredient by its ID.
func (r *GORMCatalogRepository) GetIngredientByID(id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredient by ID %d: %w", id, err)
	}
	return &ingredient, nil
}

// GetIngredientsByIDs retrieves the ingredients matching the given IDs.
// Callers compare the result length against the request to detect
// references to missing ingredients.
func (r *GORMCatalogRepository) GetIngredientsByIDs(ids []uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to get ingredients by IDs: %w", err)
	}
	return ingredients, nil
}

// CreateIngredients bulk-inserts reference ingredients, skipping rows
// whose name already exists.
func (r *GORMCatalogRepository) CreateIngredients(ingredients []models.Ingredient) error {
	if len(ingredients) == 0 {
		return nil
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&ingredients).Error; err != nil {
		return fmt.Errorf("failed to create ingredients: %w", err)
	}
	return nil
}

// GetAllTags retrieves every tag.
func (r *GORMCatalogRepository) GetAllTags() ([]models.Tag, error) {
	var tags []models.Tag
	if err := r.db.Order("id asc").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get all tags: %w", err)
	}
	return tags, nil
}

// GetTagByID retrieves a single tag by its ID.
func (r *GORMCatalogRepository) GetTagByID(id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.First(&tag, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get tag by ID %d: %w", id, err)
	}
	return &tag, nil
}

// GetTagsByIDs retrieves the tags matching the given IDs.
func (r *GORMCatalogRepository) GetTagsByIDs(ids []uint) ([]models.Tag, error) {
	var tags []models.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to get tags by IDs: %w", err)
	}
	return tags, nil
}

// CreateTags bulk-inserts reference tags, skipping existing ones.
func (r *GORMCatalogRepository) CreateTags(tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tags).Error; err != nil {
		return fmt.Errorf("failed to create tags: %w", err)
	}
	return nil
}
