package model

import "github.com/google/uuid"

// Recipe is one BOM node. Semi-finished recipes can be used as ingredients of other recipes.
type Recipe struct {
	BaseModel
	ProductName    string       `gorm:"type:varchar(255);not null;index" json:"product_name" validate:"required"`
	IsSemiFinished bool         `gorm:"default:false" json:"is_semi_finished"`
	Ingredients    []Ingredient `gorm:"foreignKey:RecipeID" json:"ingredients"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// Ingredient references either a raw material or a semi-finished recipe by id.
// TargetRef may also hold a name; it is then resolved through the name alias index.
type Ingredient struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	RecipeID  uuid.UUID `gorm:"type:uuid;not null;index" json:"recipe_id"`
	Position  int       `gorm:"default:0" json:"position"`
	TargetRef string    `gorm:"type:varchar(255);not null" json:"target_ref" validate:"required"`
	Quantity  *float64  `json:"quantity"`
	Unit      string    `gorm:"type:varchar(20)" json:"unit"`
}

func (Ingredient) TableName() string {
	return "recipe_ingredients"
}
