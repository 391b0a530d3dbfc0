package repository

import (
	"context"
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RevokedTokenRepository is the database-backed token blacklist used when
// Redis is disabled.
type RevokedTokenRepository interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type revokedTokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRevokedTokenRepository(db *gorm.DB) RevokedTokenRepository {
	return &revokedTokenRepository{db: db, now: time.Now}
}

func (r *revokedTokenRepository) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	row := model.RevokedToken{JTI: jti, ExpiresAt: r.now().Add(ttl)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row).Error
	if err != nil {
		logger.Error("Failed to store revoked token", err)
		return err
	}
	return nil
}

func (r *revokedTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, r.now()).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check revoked token", err)
		return false, err
	}
	return count > 0, nil
}

// PurgeExpired deletes rows whose token could no longer be used anyway.
func (r *revokedTokenRepository) PurgeExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", r.now()).
		Delete(&model.RevokedToken{})
	if result.Error != nil {
		logger.Error("Failed to purge expired revoked tokens", result.Error)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
