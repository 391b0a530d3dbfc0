package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("unable to log in with provided credentials")

// TokenRevoker is the blacklist of logged-out token ids. Both the Redis
// and the database store implement it.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

type AuthService interface {
	Login(email, password string) (*model.User, string, error)
	Logout(ctx context.Context, claims *util.Claims) error
}

type authService struct {
	userRepo     repository.UserRepository
	revoker      TokenRevoker
	jwtSecret    string
	accessExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	revoker TokenRevoker,
	jwtSecret string,
	accessExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		revoker:      revoker,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
	}
}

// Login checks the credentials and returns a signed access token.
func (s *authService) Login(email, password string) (*model.User, string, error) {
	email = strings.TrimSpace(email)
	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateAccessToken(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, "", err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return user, token, nil
}

// Logout blacklists the token until it would have expired.
func (s *authService) Logout(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return util.ErrInvalidToken
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		logger.Error("Failed to revoke token", err, map[string]interface{}{
			"user_id": claims.UserID,
		})
		return err
	}

	logger.Info("User logged out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}
