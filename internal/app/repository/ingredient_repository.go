package repository

import (
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type IngredientRepository interface {
	Search(namePrefix string) ([]model.Ingredient, error)
	FindByID(id uint) (*model.Ingredient, error)
	FindByIDs(ids []uint) ([]model.Ingredient, error)
	BulkCreate(ingredients []model.Ingredient, batchSize int) (int64, error)
}

type ingredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// Search matches names starting with namePrefix, case-insensitively.
// An empty prefix returns the whole catalogue.
func (r *ingredientRepository) Search(namePrefix string) ([]model.Ingredient, error) {
	query := r.db.Order("name ASC").Order("id ASC")
	if prefix := strings.TrimSpace(namePrefix); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []model.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		logger.Error("Failed to search ingredients", err, map[string]interface{}{
			"prefix": namePrefix,
		})
		return nil, err
	}
	return ingredients, nil
}

func (r *ingredientRepository) FindByID(id uint) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	if err := r.db.First(&ingredient, id).Error; err != nil {
		logNotFoundOrError("Failed to find ingredient by ID", err, map[string]interface{}{
			"ingredient_id": id,
		})
		return nil, err
	}
	return &ingredient, nil
}

func (r *ingredientRepository) FindByIDs(ids []uint) ([]model.Ingredient, error) {
	var ingredients []model.Ingredient
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		logger.Error("Failed to fetch ingredients by IDs", err)
		return nil, err
	}
	return ingredients, nil
}

// BulkCreate inserts the ingredients in batches, skipping name/unit pairs
// that already exist. It returns the number of rows inserted.
func (r *ingredientRepository) BulkCreate(ingredients []model.Ingredient, batchSize int) (int64, error) {
	if len(ingredients) == 0 {
		return 0, nil
	}
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(&ingredients, batchSize)
	if result.Error != nil {
		logger.Error("Failed to bulk create ingredients", result.Error, map[string]interface{}{
			"count": len(ingredients),
		})
		return 0, result.Error
	}

	logger.Info("Ingredients imported", map[string]interface{}{
		"requested": len(ingredients),
		"inserted":  result.RowsAffected,
	})
	return result.RowsAffected, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
