package models

import "time"

// Favorite is a user's bookmark of a recipe. The composite unique
// index guarantees at most one row per (user, recipe) pair even under
// concurrent creates; the losing insert surfaces as a duplicate-key
// error rather than a second row.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:ux_favorites_pair"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:ux_favorites_pair"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCartItem marks a recipe whose ingredients the user intends
// to buy. Same uniqueness contract as Favorite.
type ShoppingCartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:ux_shopping_cart_items_pair"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:ux_shopping_cart_items_pair"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe *Recipe `json:"-" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}
