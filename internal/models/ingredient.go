package models

// Ingredient is immutable reference data: a unique name paired with
// the unit its amounts are measured in.
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string `json:"name" gorm:"uniqueIndex;type:varchar(200);not null" validate:"required,max=200"`
	MeasurementUnit string `json:"measurement_unit" gorm:"type:varchar(20);not null" validate:"required,max=20"`
}

// Tag is reference data used to categorize recipes.
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name  string `json:"name" gorm:"uniqueIndex;type:varchar(200);not null" validate:"required,max=200"`
	Slug  string `json:"slug" gorm:"uniqueIndex;type:varchar(200);not null" validate:"required,max=200"`
	Color string `json:"color" gorm:"uniqueIndex;type:varchar(7);not null" validate:"required,hexcolor"`
}
