package service

import (
	"context"
	"errors"
	"strings"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrAdminOnly     = errors.New("only administrators may do this")
)

// UserProfile is a user as seen by a particular viewer.
type UserProfile struct {
	User         *model.User
	IsSubscribed bool
}

type UserService interface {
	Register(input RegisterInput) (*model.User, error)
	Get(viewer Viewer, id uint) (*UserProfile, error)
	List(viewer Viewer, offset, limit int) ([]UserProfile, int64, error)
	SetPassword(userID uint, current, next string) error
	SetAvatar(ctx context.Context, userID uint, dataURL string) (string, error)
	DeleteAvatar(ctx context.Context, userID uint) error
	Delete(ctx context.Context, actor Viewer, id uint) error
	EnsureSuperuser(username, email, password string) (bool, error)
}

type userService struct {
	userRepo repository.UserRepository
	subRepo  repository.SubscriptionRepository
	images   storage.ImageStore
}

func NewUserService(
	userRepo repository.UserRepository,
	subRepo repository.SubscriptionRepository,
	images storage.ImageStore,
) UserService {
	return &userService{
		userRepo: userRepo,
		subRepo:  subRepo,
		images:   images,
	}
}

func (s *userService) Register(input RegisterInput) (*model.User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	logger.Info("Attempting user registration", map[string]interface{}{
		"username": input.Username,
		"email":    input.Email,
	})

	usernameTaken, err := s.userRepo.UsernameExists(input.Username)
	if err != nil {
		return nil, err
	}
	emailTaken, err := s.userRepo.EmailExists(input.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidateRegistration(input, usernameTaken, emailTaken); err != nil {
		logger.Warn("Registration rejected", map[string]interface{}{
			"username": input.Username,
			"error":    err.Error(),
		})
		return nil, err
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err)
		return nil, err
	}

	user := &model.User{
		Username:     input.Username,
		Email:        input.Email,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		PasswordHash: hash,
		Role:         model.RoleRegular,
	}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.duplicateUserError(input)
		}
		return nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id":  user.ID,
		"username": user.Username,
	})
	return user, nil
}

// duplicateUserError tells which unique field lost a concurrent race.
func (s *userService) duplicateUserError(input RegisterInput) error {
	if taken, _ := s.userRepo.UsernameExists(input.Username); taken {
		return ValidationErrors{{Field: "username", Err: ErrUsernameTaken}}
	}
	return ValidationErrors{{Field: "email", Err: ErrEmailTaken}}
}

func (s *userService) Get(viewer Viewer, id uint) (*UserProfile, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	profiles, err := s.profiles(viewer, []model.User{*user})
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

func (s *userService) List(viewer Viewer, offset, limit int) ([]UserProfile, int64, error) {
	users, total, err := s.userRepo.List(offset, limit)
	if err != nil {
		return nil, 0, err
	}
	profiles, err := s.profiles(viewer, users)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

func (s *userService) profiles(viewer Viewer, users []model.User) ([]UserProfile, error) {
	ids := make([]uint, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	subscribed, err := s.subRepo.SubscribedAuthorIDs(viewer.UserID, ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]UserProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, UserProfile{
			User:         &users[i],
			IsSubscribed: subscribed[users[i].ID],
		})
	}
	return profiles, nil
}

func (s *userService) SetPassword(userID uint, current, next string) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !util.VerifyPassword(user.PasswordHash, current) {
		logger.Warn("Password change rejected: wrong current password", map[string]interface{}{
			"user_id": userID,
		})
		return &FieldError{Field: "current_password", Err: ErrWrongPassword}
	}
	if err := checkPassword(next); err != nil {
		return &FieldError{Field: "new_password", Err: err}
	}

	hash, err := util.HashPassword(next)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, hash); err != nil {
		return err
	}

	logger.Info("Password changed", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}

func (s *userService) SetAvatar(ctx context.Context, userID uint, dataURL string) (string, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if _, err := storage.DecodeDataURL(dataURL); err != nil {
		return "", &FieldError{Field: "avatar", Err: err}
	}

	url, err := s.images.SaveDataURL(ctx, "avatars", dataURL)
	if err != nil {
		return "", err
	}
	if err := s.userRepo.UpdateAvatar(userID, url); err != nil {
		s.removeImage(ctx, url)
		return "", err
	}
	s.removeImage(ctx, user.Avatar)

	logger.Info("Avatar updated", map[string]interface{}{
		"user_id": userID,
	})
	return url, nil
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uint) error {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.userRepo.UpdateAvatar(userID, ""); err != nil {
		return err
	}
	s.removeImage(ctx, user.Avatar)
	return nil
}

func (s *userService) removeImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Warn("Failed to remove image", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
}

// Delete removes a user with everything they own. Admin only.
func (s *userService) Delete(ctx context.Context, actor Viewer, id uint) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.userRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	s.removeImage(ctx, user.Avatar)

	logger.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"actor_id": actor.UserID,
	})
	return nil
}

// EnsureSuperuser creates the bootstrap administrator unless a user with
// that username or email already exists. It reports whether one was created.
func (s *userService) EnsureSuperuser(username, email, password string) (bool, error) {
	usernameTaken, err := s.userRepo.UsernameExists(username)
	if err != nil {
		return false, err
	}
	emailTaken, err := s.userRepo.EmailExists(email)
	if err != nil {
		return false, err
	}
	if usernameTaken || emailTaken {
		logger.Debug("Superuser already present", map[string]interface{}{
			"username": username,
		})
		return false, nil
	}

	if err := checkPassword(password); err != nil {
		return false, err
	}
	hash, err := util.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin := &model.User{
		Username:     username,
		Email:        email,
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: hash,
		Role:         model.RoleAdmin,
	}
	if err := s.userRepo.Create(admin); err != nil {
		return false, err
	}

	logger.Info("Default superuser created", map[string]interface{}{
		"user_id":  admin.ID,
		"username": username,
	})
	return true, nil
}
