package repository

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type SubscriptionRepository interface {
	Create(sub *model.Subscription) error
	Delete(userID, authorID uint) (bool, error)
	Exists(userID, authorID uint) (bool, error)
	ListAuthors(userID uint, offset, limit int) ([]model.User, int64, error)
	SubscribedAuthorIDs(userID uint, authorIDs []uint) (map[uint]bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) Create(sub *model.Subscription) error {
	if err := r.db.Omit("User", "Author").Create(sub).Error; err != nil {
		logger.Error("Failed to create subscription", err, map[string]interface{}{
			"user_id":   sub.UserID,
			"author_id": sub.AuthorID,
		})
		return err
	}
	return nil
}

func (r *subscriptionRepository) Delete(userID, authorID uint) (bool, error) {
	result := r.db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&model.Subscription{})
	if result.Error != nil {
		logger.Error("Failed to delete subscription", result.Error, map[string]interface{}{
			"user_id":   userID,
			"author_id": authorID,
		})
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *subscriptionRepository) Exists(userID, authorID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error
	return count > 0, err
}

// ListAuthors pages through the users that userID follows, most recent
// subscription first.
func (r *subscriptionRepository) ListAuthors(userID uint, offset, limit int) ([]model.User, int64, error) {
	base := func() *gorm.DB {
		return r.db.Model(&model.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		logger.Error("Failed to count subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}

	var authors []model.User
	err := base().
		Order("subscriptions.created_at DESC").
		Order("subscriptions.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		logger.Error("Failed to list subscriptions", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, 0, err
	}
	return authors, total, nil
}

func (r *subscriptionRepository) SubscribedAuthorIDs(userID uint, authorIDs []uint) (map[uint]bool, error) {
	set := make(map[uint]bool, len(authorIDs))
	if userID == 0 || len(authorIDs) == 0 {
		return set, nil
	}

	var ids []uint
	err := r.db.Model(&model.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
