package models

import "time"

// Recipe represents a published dish. It is owned by exactly one
// author and holds its ingredient and tag associations through
// explicit join rows, created and replaced wholesale with the recipe.
type Recipe struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	AuthorID    uint      `json:"author_id" gorm:"index;not null"`
	Name        string    `json:"name" gorm:"index;type:varchar(200);not null"`
	Image       string    `json:"image" gorm:"type:varchar(500)"` // asset store reference
	Text        string    `json:"text" gorm:"type:text;not null"`
	CookingTime int       `json:"cooking_time" gorm:"not null;check:cooking_time >= 1"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`

	Author      *User              `json:"-" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `json:"-" gorm:"foreignKey:RecipeID"`
	Tags        []RecipeTag        `json:"-" gorm:"foreignKey:RecipeID"`
}

// RecipeIngredient binds a recipe to an ingredient with a quantity.
// At most one row may exist per (recipe, ingredient) pair.
type RecipeIngredient struct {
	ID           uint `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID     uint `json:"recipe_id" gorm:"not null;uniqueIndex:ux_recipe_ingredients_pair"`
	IngredientID uint `json:"ingredient_id" gorm:"not null;uniqueIndex:ux_recipe_ingredients_pair"`
	Amount       int  `json:"amount" gorm:"not null;check:amount >= 1"`

	Ingredient *Ingredient `json:"ingredient,omitempty" gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

// RecipeTag binds a recipe to a tag, at most once per pair.
type RecipeTag struct {
	ID       uint `json:"id" gorm:"primaryKey;autoIncrement"`
	RecipeID uint `json:"recipe_id" gorm:"not null;uniqueIndex:ux_recipe_tags_pair"`
	TagID    uint `json:"tag_id" gorm:"not null;uniqueIndex:ux_recipe_tags_pair"`

	Tag *Tag `json:"tag,omitempty" gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE"`
}
