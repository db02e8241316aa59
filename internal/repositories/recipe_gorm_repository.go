package repositories

import (
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

// Create inserts the recipe row and bulk-inserts its association rows
// in a single transaction.
func (r *GORMRecipeRepository) Create(recipe *models.Recipe, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Ingredients", "Tags", "Author").Create(recipe).Error; err != nil {
			return err
		}
		return createAssociations(tx, recipe.ID, ingredients, tags)
	})
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Replace updates the recipe's scalar fields and swaps its association
// rows wholesale: existing ingredient and tag rows are deleted and the
// new sets inserted, all inside one transaction so a failure partway
// leaves the previous state intact.
func (r *GORMRecipeRepository) Replace(recipe *models.Recipe, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).
			Select("Name", "Image", "Text", "CookingTime").
			Updates(map[string]interface{}{
				"name":         recipe.Name,
				"image":        recipe.Image,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return createAssociations(tx, recipe.ID, ingredients, tags)
	})
	if err != nil {
		return fmt.Errorf("failed to replace recipe %d: %w", recipe.ID, err)
	}
	return nil
}

func createAssociations(tx *gorm.DB, recipeID uint, ingredients []models.RecipeIngredient, tags []models.RecipeTag) error {
	for i := range ingredients {
		ingredients[i].RecipeID = recipeID
	}
	for i := range tags {
		tags[i].RecipeID = recipeID
	}
	if len(ingredients) > 0 {
		if err := tx.Create(&ingredients).Error; err != nil {
			return err
		}
	}
	if len(tags) > 0 {
		if err := tx.Create(&tags).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a recipe and, through its transaction, the
// association and relation rows referencing it.
func (r *GORMRecipeRepository) Delete(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		// Explicit cleanup keeps the delete portable to engines where
		// AutoMigrate did not install the cascade constraints.
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCartItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	return nil
}

// GetByID retrieves a single recipe with its author, ingredient and
// tag associations preloaded.
func (r *GORMRecipeRepository) GetByID(id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.preloaded().First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID %d: %w", id, err)
	}
	return &recipe, nil
}

// List retrieves recipes matching the filter, in creation order
// (ascending primary key). Filters combine conjunctively; the tag
// filter matches any of the given slugs and de-duplicates the result.
func (r *GORMRecipeRepository) List(filter RecipeFilter) ([]models.Recipe, error) {
	query := r.preloaded()

	if filter.AuthorID != 0 {
		query = query.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if len(filter.TagSlugs) > 0 {
		query = query.
			Joins("JOIN recipe_tags ON recipe_tags.recipe_id = recipes.id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.TagSlugs).
			Distinct("recipes.*")
	}
	if filter.FavoritedBy != 0 {
		query = query.Joins(
			"JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?",
			filter.FavoritedBy,
		)
	}
	if filter.InCartOf != 0 {
		query = query.Joins(
			"JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipes.id AND shopping_cart_items.user_id = ?",
			filter.InCartOf,
		)
	}

	var recipes []models.Recipe
	if err := query.Order("recipes.id asc").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// ListByAuthor retrieves an author's recipes in creation order,
// optionally limited. A limit of 0 means no limit.
func (r *GORMRecipeRepository) ListByAuthor(authorID uint, limit int) ([]models.Recipe, error) {
	query := r.preloaded().Where("recipes.author_id = ?", authorID).Order("recipes.id asc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to list recipes by author %d: %w", authorID, err)
	}
	return recipes, nil
}

// CountByAuthor counts an author's recipes.
func (r *GORMRecipeRepository) CountByAuthor(authorID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count recipes by author %d: %w", authorID, err)
	}
	return count, nil
}

func (r *GORMRecipeRepository) preloaded() *gorm.DB {
	return r.db.Model(&models.Recipe{}).
		Preload("Author").
		Preload("Ingredients.Ingredient").
		Preload("Tags.Tag")
}
