package repositories

import (
	"fmt"

	"resep/internal/models"

	"gorm.io/gorm"
)

// GORMRelationRepository is a GORM implementation of RelationRepository.
// One implementation serves all three relation kinds; the kind picks
// the join table and the column pair.
type GORMRelationRepository struct {
	db *gorm.DB
}

// NewGORMRelationRepository creates a new instance of GORMRelationRepository.
func NewGORMRelationRepository(db *gorm.DB) *GORMRelationRepository {
	return &GORMRelationRepository{
		db: db,
	}
}

func relationRow(kind RelationKind, ownerID, targetID uint) (interface{}, error) {
	switch kind {
	case RelationFavorite:
		return &models.Favorite{UserID: ownerID, RecipeID: targetID}, nil
	case RelationShoppingCart:
		return &models.ShoppingCartItem{UserID: ownerID, RecipeID: targetID}, nil
	case RelationSubscription:
		return &models.Subscription{SubscriberID: ownerID, AuthorID: targetID}, nil
	}
	return nil, fmt.Errorf("unknown relation kind %q", kind)
}

func (r *GORMRelationRepository) scoped(kind RelationKind, ownerID, targetID uint) (*gorm.DB, error) {
	switch kind {
	case RelationFavorite:
		return r.db.Model(&models.Favorite{}).
			Where("user_id = ? AND recipe_id = ?", ownerID, targetID), nil
	case RelationShoppingCart:
		return r.db.Model(&models.ShoppingCartItem{}).
			Where("user_id = ? AND recipe_id = ?", ownerID, targetID), nil
	case RelationSubscription:
		return r.db.Model(&models.Subscription{}).
			Where("subscriber_id = ? AND author_id = ?", ownerID, targetID), nil
	}
	return nil, fmt.Errorf("unknown relation kind %q", kind)
}

// Create inserts the (owner, target) pair. When the pair already
// exists the unique index rejects the insert and the error wraps
// gorm.ErrDuplicatedKey, which keeps concurrent duplicate creates
// race-safe without a prior existence check.
func (r *GORMRelationRepository) Create(kind RelationKind, ownerID, targetID uint) error {
	row, err := relationRow(kind, ownerID, targetID)
	if err != nil {
		return err
	}
	if err := r.db.Create(row).Error; err != nil {
		return fmt.Errorf("failed to create %s relation: %w", kind, err)
	}
	return nil
}

// Delete removes the (owner, target) pair. Deleting an absent pair is
// an error, not a silent success: the wrapped gorm.ErrRecordNotFound
// lets callers report it.
func (r *GORMRelationRepository) Delete(kind RelationKind, ownerID, targetID uint) error {
	row, err := relationRow(kind, ownerID, targetID)
	if err != nil {
		return err
	}
	scope, err := r.scoped(kind, ownerID, targetID)
	if err != nil {
		return err
	}
	res := scope.Delete(row)
	if res.Error != nil {
		return fmt.Errorf("failed to delete %s relation: %w", kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s relation does not exist: %w", kind, gorm.ErrRecordNotFound)
	}
	return nil
}

// Exists reports whether the (owner, target) pair is present.
func (r *GORMRelationRepository) Exists(kind RelationKind, ownerID, targetID uint) (bool, error) {
	scope, err := r.scoped(kind, ownerID, targetID)
	if err != nil {
		return false, err
	}
	var count int64
	if err := scope.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check %s relation: %w", kind, err)
	}
	return count > 0, nil
}

// ListSubscribedAuthors retrieves the authors the given user follows,
// in subscription order.
func (r *GORMRelationRepository) ListSubscribedAuthors(subscriberID uint) ([]models.User, error) {
	var authors []models.User
	if err := r.db.Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.subscriber_id = ?", subscriberID).
		Order("subscriptions.id asc").
		Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to list subscribed authors: %w", err)
	}
	return authors, nil
}

// SumCartIngredients aggregates the ingredients of every recipe in the
// user's cart: one row per distinct ingredient with the summed amount,
// ordered by ingredient name ascending.
func (r *GORMRelationRepository) SumCartIngredients(userID uint) ([]ShoppingListRow, error) {
	var rows []ShoppingListRow
	if err := r.db.Model(&models.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_cart_items ON shopping_cart_items.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_cart_items.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate shopping cart: %w", err)
	}
	return rows, nil
}
