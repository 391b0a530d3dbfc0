package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type ShoppingListRepository interface {
	Aggregate(userID uint) ([]model.ShoppingListItem, error)
}

type shoppingListRepository struct {
	db *gorm.DB
}

func NewShoppingListRepository(db *gorm.DB) ShoppingListRepository {
	return &shoppingListRepository{db: db}
}

// Aggregate sums ingredient amounts over every recipe in the user's cart,
// one line per (name, unit).
func (r *shoppingListRepository) Aggregate(userID uint) ([]model.ShoppingListItem, error) {
	var items []model.ShoppingListItem
	err := r.db.Table("shopping_cart_entries AS c").
		Select("i.name AS name, i.measurement_unit AS measurement_unit, SUM(q.amount) AS total").
		Joins("JOIN ingredient_quantities q ON q.recipe_id = c.recipe_id").
		Joins("JOIN ingredients i ON i.id = q.ingredient_id").
		Where("c.user_id = ?", userID).
		Group("i.name, i.measurement_unit").
		Order("i.name ASC").
		Order("i.measurement_unit ASC").
		Scan(&items).Error
	if err != nil {
		logger.Error("Failed to aggregate shopping list", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Debug("Shopping list aggregated", map[string]interface{}{
		"user_id": userID,
		"lines":   len(items),
	})
	return items, nil
}
