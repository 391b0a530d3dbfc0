package model

import (
	"time"
)

type Recipe struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	AuthorID    uint      `gorm:"not null;uniqueIndex:idx_recipe_author_name" json:"author_id"`
	Name        string    `gorm:"type:varchar(256);not null;uniqueIndex:idx_recipe_author_name" json:"name"`
	Text        string    `gorm:"type:text;not null" json:"text"`
	Image       string    `gorm:"type:varchar(512)" json:"image"`
	CookingTime int       `gorm:"not null;check:cooking_time > 0" json:"cooking_time"`
	ShortLink   string    `gorm:"type:varchar(16);uniqueIndex;not null" json:"-"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Author      User                 `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag                `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"tags"`
	Ingredients []IngredientQuantity `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// TagIDs returns the ids of the loaded tags in order.
func (r *Recipe) TagIDs() []uint {
	ids := make([]uint, 0, len(r.Tags))
	for _, t := range r.Tags {
		ids = append(ids, t.ID)
	}
	return ids
}
