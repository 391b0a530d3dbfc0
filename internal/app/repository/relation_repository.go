package repository

import (
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

// RelationRepository stores user-to-recipe links of one kind.
type RelationRepository[T model.RecipeLink] interface {
	Create(userID, recipeID uint) error
	Delete(userID, recipeID uint) (bool, error)
	Exists(userID, recipeID uint) (bool, error)
	CountByUser(userID uint) (int64, error)
}

type relationRepository[T model.RecipeLink] struct {
	db *gorm.DB
}

func NewRelationRepository[T model.RecipeLink](db *gorm.DB) RelationRepository[T] {
	return &relationRepository[T]{db: db}
}

func (r *relationRepository[T]) table() string {
	var link T
	return link.TableName()
}

func (r *relationRepository[T]) Create(userID, recipeID uint) error {
	err := r.db.Model(new(T)).Create(map[string]interface{}{
		"user_id":    userID,
		"recipe_id":  recipeID,
		"created_at": time.Now(),
	}).Error
	if err != nil {
		logger.Error("Failed to create recipe link", err, map[string]interface{}{
			"table":     r.table(),
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return err
	}
	return nil
}

// Delete reports whether a row was removed.
func (r *relationRepository[T]) Delete(userID, recipeID uint) (bool, error) {
	result := r.db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(new(T))
	if result.Error != nil {
		logger.Error("Failed to delete recipe link", result.Error, map[string]interface{}{
			"table":     r.table(),
			"user_id":   userID,
			"recipe_id": recipeID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *relationRepository[T]) Exists(userID, recipeID uint) (bool, error) {
	var count int64
	err := r.db.Model(new(T)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error
	return count > 0, err
}

func (r *relationRepository[T]) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(new(T)).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
