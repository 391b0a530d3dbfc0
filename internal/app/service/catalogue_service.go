package service

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"gorm.io/gorm"
)

var (
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
)

type TagService interface {
	List() ([]model.Tag, error)
	Get(id uint) (*model.Tag, error)
}

type tagService struct {
	repo repository.TagRepository
}

func NewTagService(repo repository.TagRepository) TagService {
	return &tagService{repo: repo}
}

func (s *tagService) List() ([]model.Tag, error) {
	return s.repo.FindAll()
}

func (s *tagService) Get(id uint) (*model.Tag, error) {
	tag, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTagNotFound
	}
	return tag, err
}

type IngredientService interface {
	Search(namePrefix string) ([]model.Ingredient, error)
	Get(id uint) (*model.Ingredient, error)
}

type ingredientService struct {
	repo repository.IngredientRepository
}

func NewIngredientService(repo repository.IngredientRepository) IngredientService {
	return &ingredientService{repo: repo}
}

func (s *ingredientService) Search(namePrefix string) ([]model.Ingredient, error) {
	return s.repo.Search(namePrefix)
}

func (s *ingredientService) Get(id uint) (*model.Ingredient, error) {
	ingredient, err := s.repo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrIngredientNotFound
	}
	return ingredient, err
}
