package service

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/export"
	"github.com/ikkim/foodgram-backend/pkg/logger"
)

type ShoppingListService interface {
	Aggregate(userID uint) ([]model.ShoppingListItem, error)
	Download(userID uint, format export.Format) (*export.Document, error)
}

type shoppingListService struct {
	repo repository.ShoppingListRepository
}

func NewShoppingListService(repo repository.ShoppingListRepository) ShoppingListService {
	return &shoppingListService{repo: repo}
}

func (s *shoppingListService) Aggregate(userID uint) ([]model.ShoppingListItem, error) {
	return s.repo.Aggregate(userID)
}

func (s *shoppingListService) Download(userID uint, format export.Format) (*export.Document, error) {
	items, err := s.repo.Aggregate(userID)
	if err != nil {
		return nil, err
	}

	doc, err := export.Render(format, export.DefaultTitle, items)
	if err != nil {
		logger.Error("Failed to render shopping list", err, map[string]interface{}{
			"user_id": userID,
			"format":  format,
		})
		return nil, err
	}

	logger.Info("Shopping list rendered", map[string]interface{}{
		"user_id": userID,
		"format":  format,
		"lines":   len(items),
		"bytes":   len(doc.Body),
	})
	return doc, nil
}
