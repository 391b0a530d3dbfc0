package db

import (
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Tag{},
		&model.Ingredient{},
		&model.Recipe{},
		&model.IngredientQuantity{},
		&model.Favorite{},
		&model.ShoppingCartEntry{},
		&model.Subscription{},
		&model.RevokedToken{},
	}
}

func Migrate(conn *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := Models()
	if err := conn.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed fills the read-only tag and ingredient catalogues when they are empty.
func Seed(conn *gorm.DB) error {
	if err := seedCatalogue(conn, model.Tag{}.TableName(), defaultTags()); err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	if err := seedCatalogue(conn, model.Ingredient{}.TableName(), defaultIngredients()); err != nil {
		return fmt.Errorf("seed ingredients: %w", err)
	}
	return nil
}

func seedCatalogue[T any](conn *gorm.DB, table string, rows []T) error {
	var count int64
	if err := conn.Table(table).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Catalogue already seeded, skipping", map[string]interface{}{
			"table":          table,
			"existing_count": count,
		})
		return nil
	}

	if err := conn.CreateInBatches(rows, 100).Error; err != nil {
		logger.Error("Failed to seed catalogue", err, map[string]interface{}{
			"table": table,
		})
		return err
	}

	logger.Info("Catalogue seeded", map[string]interface{}{
		"table": table,
		"rows":  len(rows),
	})
	return nil
}

func defaultTags() []model.Tag {
	return []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
		{Name: "Dinner", Slug: "dinner"},
		{Name: "Dessert", Slug: "dessert"},
		{Name: "Vegetarian", Slug: "vegetarian"},
	}
}

func defaultIngredients() []model.Ingredient {
	raw := [][2]string{
		{"apple", "g"},
		{"basil", "g"},
		{"bay leaf", "pcs"},
		{"beef", "g"},
		{"butter", "g"},
		{"carrot", "g"},
		{"cheese", "g"},
		{"chicken breast", "g"},
		{"cream", "ml"},
		{"cucumber", "g"},
		{"egg", "pcs"},
		{"flour", "g"},
		{"garlic", "clove"},
		{"honey", "tbsp"},
		{"lemon", "pcs"},
		{"milk", "ml"},
		{"olive oil", "tbsp"},
		{"onion", "g"},
		{"pasta", "g"},
		{"pepper", "pinch"},
		{"potato", "g"},
		{"rice", "g"},
		{"salt", "pinch"},
		{"sugar", "g"},
		{"tomato", "g"},
		{"water", "ml"},
	}
	ingredients := make([]model.Ingredient, 0, len(raw))
	for _, r := range raw {
		ingredients = append(ingredients, model.Ingredient{Name: r[0], MeasurementUnit: r[1]})
	}
	return ingredients
}
