package service

import (
	"errors"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrTargetNotFound    = errors.New("user not found")
	ErrSelfSubscription  = errors.New("you cannot subscribe to yourself")
	ErrAlreadySubscribed = errors.New("already subscribed to this user")
	ErrNotSubscribed     = errors.New("not subscribed to this user")
)

// AuthorProfile is a followed user with a preview of their recipes.
type AuthorProfile struct {
	User         *model.User
	IsSubscribed bool
	RecipesCount int64
	Recipes      []model.Recipe
}

type SubscriptionService interface {
	Subscribe(followerID, targetID uint, recipesLimit int) (*AuthorProfile, error)
	Unsubscribe(followerID, targetID uint) error
	ListSubscriptions(followerID uint, offset, limit, recipesLimit int) ([]AuthorProfile, int64, error)
}

type subscriptionService struct {
	subRepo    repository.SubscriptionRepository
	userRepo   repository.UserRepository
	recipeRepo repository.RecipeRepository
}

func NewSubscriptionService(
	subRepo repository.SubscriptionRepository,
	userRepo repository.UserRepository,
	recipeRepo repository.RecipeRepository,
) SubscriptionService {
	return &subscriptionService{
		subRepo:    subRepo,
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
	}
}

func (s *subscriptionService) findTarget(targetID uint) (*model.User, error) {
	target, err := s.userRepo.FindByID(targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTargetNotFound
		}
		return nil, err
	}
	return target, nil
}

func (s *subscriptionService) Subscribe(followerID, targetID uint, recipesLimit int) (*AuthorProfile, error) {
	target, err := s.findTarget(targetID)
	if err != nil {
		return nil, err
	}
	if followerID == targetID {
		return nil, ErrSelfSubscription
	}

	exists, err := s.subRepo.Exists(followerID, targetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadySubscribed
	}

	sub := &model.Subscription{UserID: followerID, AuthorID: targetID}
	if err := s.subRepo.Create(sub); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubscribed
		}
		return nil, err
	}

	logger.Info("User subscribed", map[string]interface{}{
		"user_id":   followerID,
		"author_id": targetID,
	})

	profiles, err := s.profiles([]model.User{*target}, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &profiles[0], nil
}

func (s *subscriptionService) Unsubscribe(followerID, targetID uint) error {
	if _, err := s.findTarget(targetID); err != nil {
		return err
	}

	removed, err := s.subRepo.Delete(followerID, targetID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrNotSubscribed
	}

	logger.Info("User unsubscribed", map[string]interface{}{
		"user_id":   followerID,
		"author_id": targetID,
	})
	return nil
}

func (s *subscriptionService) ListSubscriptions(followerID uint, offset, limit, recipesLimit int) ([]AuthorProfile, int64, error) {
	authors, total, err := s.subRepo.ListAuthors(followerID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	profiles, err := s.profiles(authors, recipesLimit)
	if err != nil {
		return nil, 0, err
	}
	return profiles, total, nil
}

// profiles builds followed-author profiles. Every author here is followed
// by the caller, so IsSubscribed is always true.
func (s *subscriptionService) profiles(authors []model.User, recipesLimit int) ([]AuthorProfile, error) {
	ids := make([]uint, 0, len(authors))
	for _, a := range authors {
		ids = append(ids, a.ID)
	}
	counts, err := s.recipeRepo.CountByAuthors(ids)
	if err != nil {
		return nil, err
	}

	profiles := make([]AuthorProfile, 0, len(authors))
	for i := range authors {
		recipes, err := s.recipeRepo.ListByAuthor(authors[i].ID, recipesLimit)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, AuthorProfile{
			User:         &authors[i],
			IsSubscribed: true,
			RecipesCount: counts[authors[i].ID],
			Recipes:      recipes,
		})
	}
	return profiles, nil
}
