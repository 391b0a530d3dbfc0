package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type TagRepository interface {
	FindAll() ([]model.Tag, error)
	FindByID(id uint) (*model.Tag, error)
	FindByIDs(ids []uint) ([]model.Tag, error)
}

type tagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) FindAll() ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.Order("id ASC").Find(&tags).Error; err != nil {
		logger.Error("Failed to fetch tags", err)
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) FindByID(id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.First(&tag, id).Error; err != nil {
		logNotFoundOrError("Failed to find tag by ID", err, map[string]interface{}{
			"tag_id": id,
		})
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&tags).Error; err != nil {
		logger.Error("Failed to fetch tags by IDs", err, map[string]interface{}{
			"tag_ids": ids,
		})
		return nil, err
	}
	return tags, nil
}
