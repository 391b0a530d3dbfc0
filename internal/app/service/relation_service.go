package service

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrAlreadyLinked = errors.New("recipe is already in the list")
	ErrNotLinked     = errors.New("recipe is not in the list")
)

// RelationService adds recipes to and removes them from one of the
// caller's lists (favorites or shopping cart).
type RelationService interface {
	Link(userID, recipeID uint) (*model.Recipe, error)
	Unlink(userID, recipeID uint) error
}

type relationService[T model.RecipeLink] struct {
	links   repository.RelationRepository[T]
	recipes repository.RecipeRepository
}

func NewRelationService[T model.RecipeLink](links repository.RelationRepository[T], recipes repository.RecipeRepository) RelationService {
	return &relationService[T]{links: links, recipes: recipes}
}

func (s *relationService[T]) list() string {
	var link T
	return link.TableName()
}

func (s *relationService[T]) Link(userID, recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipes.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}

	exists, err := s.links.Exists(userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyLinked
	}

	if err := s.links.Create(userID, recipeID); err != nil {
		// a concurrent request won the unique index
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyLinked
		}
		return nil, err
	}

	logger.Info("Recipe linked", map[string]interface{}{
		"list":      s.list(),
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return recipe, nil
}

func (s *relationService[T]) Unlink(userID, recipeID uint) error {
	removed, err := s.links.Delete(userID, recipeID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotLinked
	}

	logger.Info("Recipe unlinked", map[string]interface{}{
		"list":      s.list(),
		"user_id":   userID,
		"recipe_id": recipeID,
	})
	return nil
}
