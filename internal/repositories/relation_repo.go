package repositories

import "resep/internal/models"

// RelationKind names one of the user-to-target pair relations that
// share the create-or-conflict / delete-or-missing contract.
type RelationKind string

const (
	RelationFavorite     RelationKind = "favorite"
	RelationShoppingCart RelationKind = "shopping_cart"
	RelationSubscription RelationKind = "subscription"
)

// ShoppingListRow is one aggregated line of a user's shopping list:
// an ingredient with the summed amount across every recipe in the cart.
type ShoppingListRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

// RelationRepository defines the interface for the pair relations
// (favorites, shopping-cart items, subscriptions). Create relies on
// the storage-level unique constraint, so a duplicate pair surfaces as
// a duplicate-key error rather than a second row.
type RelationRepository interface {
	Create(kind RelationKind, ownerID, targetID uint) error
	Delete(kind RelationKind, ownerID, targetID uint) error
	Exists(kind RelationKind, ownerID, targetID uint) (bool, error)
	ListSubscribedAuthors(subscriberID uint) ([]models.User, error)
	SumCartIngredients(userID uint) ([]ShoppingListRow, error)
}
