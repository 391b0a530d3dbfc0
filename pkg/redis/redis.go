package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked_token:"

// TokenBlacklist keeps logged-out token ids in Redis until they expire.
type TokenBlacklist struct {
	client *redis.Client
}

// Connect dials Redis and verifies the connection.
func Connect(cfg *config.RedisConfig) (*TokenBlacklist, error) {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return NewTokenBlacklist(client), nil
}

func NewTokenBlacklist(client *redis.Client) *TokenBlacklist {
	return &TokenBlacklist{client: client}
}

func (b *TokenBlacklist) Close() error {
	logger.Info("Closing Redis connection")
	return b.client.Close()
}

// Revoke stores jti for ttl. Non-positive ttls are ignored because the
// token is already unusable.
func (b *TokenBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := b.client.Set(ctx, revokedKeyPrefix+jti, "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	logger.Debug("Token blacklisted", map[string]interface{}{
		"expiry": ttl.String(),
	})
	return nil
}

func (b *TokenBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return n > 0, nil
}

// PurgeExpired is a no-op: Redis expires keys on its own.
func (b *TokenBlacklist) PurgeExpired(context.Context) (int64, error) {
	return 0, nil
}
