package model

type Ingredient struct {
	ID              uint   `gorm:"primarykey" json:"id"`
	Name            string `gorm:"type:varchar(128);not null;index;uniqueIndex:idx_ingredient_name_unit" json:"name"`
	MeasurementUnit string `gorm:"type:varchar(64);not null;uniqueIndex:idx_ingredient_name_unit" json:"measurement_unit"`
}

func (Ingredient) TableName() string {
	return "ingredients"
}

// IngredientQuantity is the amount of one ingredient used by one recipe.
type IngredientQuantity struct {
	ID           uint `gorm:"primarykey" json:"-"`
	RecipeID     uint `gorm:"not null;uniqueIndex:idx_ingredient_quantity_pair" json:"-"`
	IngredientID uint `gorm:"not null;uniqueIndex:idx_ingredient_quantity_pair;index" json:"id"`
	Amount       int  `gorm:"not null;check:amount > 0" json:"amount"`

	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"-"`
}

func (IngredientQuantity) TableName() string {
	return "ingredient_quantities"
}
