package repository

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByUsername(username string) (*model.User, error)
	UsernameExists(username string) (bool, error)
	EmailExists(email string) (bool, error)
	List(offset, limit int) ([]model.User, int64, error)
	UpdatePassword(id uint, passwordHash string) error
	UpdateAvatar(id uint, avatar string) error
	Delete(id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *model.User) error {
	logger.Debug("Creating user in database", map[string]interface{}{
		"username": user.Username,
	})

	if err := r.db.Create(user).Error; err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"username": user.Username,
		})
		return err
	}
	return nil
}

func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		logNotFoundOrError("Failed to find user by ID", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		logNotFoundOrError("Failed to find user by email", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		logNotFoundOrError("Failed to find user by username", err, map[string]interface{}{
			"username": username,
		})
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *userRepository) List(offset, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		logger.Error("Failed to count users", err)
		return nil, 0, err
	}

	var users []model.User
	if err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		logger.Error("Failed to list users", err, map[string]interface{}{
			"offset": offset,
			"limit":  limit,
		})
		return nil, 0, err
	}
	return users, total, nil
}

func (r *userRepository) UpdatePassword(id uint, passwordHash string) error {
	return r.updateColumn(id, "password_hash", passwordHash)
}

func (r *userRepository) UpdateAvatar(id uint, avatar string) error {
	return r.updateColumn(id, "avatar", avatar)
}

func (r *userRepository) updateColumn(id uint, column string, value interface{}) error {
	result := r.db.Model(&model.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		logger.Error("Failed to update user", result.Error, map[string]interface{}{
			"user_id": id,
			"column":  column,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes the user together with their recipes, links and
// subscriptions in one transaction.
func (r *userRepository) Delete(id uint) error {
	logger.Debug("Deleting user from database", map[string]interface{}{
		"user_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		authored := func() *gorm.DB {
			return tx.Model(&model.Recipe{}).Select("id").Where("author_id = ?", id)
		}
		if err := purgeRecipeChildren(tx, authored); err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&model.Recipe{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.ShoppingCartEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", id, id).Delete(&model.Subscription{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&model.User{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to delete user from database", err, map[string]interface{}{
			"user_id": id,
		})
	}
	return err
}

// logNotFoundOrError keeps expected misses out of the error log.
func logNotFoundOrError(msg string, err error, fields map[string]interface{}) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Debug(msg+": not found", fields)
		return
	}
	logger.Error(msg, err, fields)
}
