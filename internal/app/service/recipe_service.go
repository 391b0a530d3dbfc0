package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"gorm.io/gorm"
)

const shortLinkAttempts = 5

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRecipeNameTaken    = errors.New("author already has a recipe with this name")
	ErrForbidden          = errors.New("only the author or an administrator may change this recipe")
	ErrShortLinkExhausted = errors.New("could not allocate a unique short link")
)

// Viewer identifies the caller. The zero value is an anonymous visitor.
type Viewer struct {
	UserID uint
	Role   model.UserRole
}

func (v Viewer) Authenticated() bool {
	return v.UserID != 0
}

func (v Viewer) IsAdmin() bool {
	return v.Role == model.RoleAdmin
}

// RecipeView is a recipe together with the viewer-dependent flags.
type RecipeView struct {
	Recipe           *model.Recipe
	IsFavorited      bool
	IsInShoppingCart bool
	AuthorSubscribed bool
}

type RecipeQuery struct {
	AuthorID         uint
	TagSlugs         []string
	IsFavorited      bool
	IsInShoppingCart bool
	Offset           int
	Limit            int
}

type RecipePage struct {
	Items []RecipeView
	Total int64
}

type RecipeService interface {
	Create(ctx context.Context, author Viewer, input RecipeInput) (*RecipeView, error)
	Update(ctx context.Context, editor Viewer, recipeID uint, input RecipeUpdate) (*RecipeView, error)
	Delete(ctx context.Context, editor Viewer, recipeID uint) error
	Get(viewer Viewer, recipeID uint) (*RecipeView, error)
	List(viewer Viewer, query RecipeQuery) (*RecipePage, error)
	GetShortLink(recipeID uint) (string, error)
	ResolveShortLink(token string) (uint, error)
}

// RecipeUpdate carries a PATCH. Nil scalars keep their stored value; tags
// and ingredients always replace the stored sets.
type RecipeUpdate struct {
	Name        *string
	Text        *string
	Image       *string
	CookingTime *int
	TagIDs      []uint
	Ingredients []IngredientAmount
}

type recipeService struct {
	recipeRepo      repository.RecipeRepository
	tagRepo         repository.TagRepository
	ingredientRepo  repository.IngredientRepository
	subRepo         repository.SubscriptionRepository
	images          storage.ImageStore
	validator       *RecipeValidator
	shortLinkBase   string
	shortLinkLength int
}

type RecipeServiceConfig struct {
	Limits          RecipeLimits
	ShortLinkBase   string
	ShortLinkLength int
}

func NewRecipeService(
	recipeRepo repository.RecipeRepository,
	tagRepo repository.TagRepository,
	ingredientRepo repository.IngredientRepository,
	subRepo repository.SubscriptionRepository,
	images storage.ImageStore,
	cfg RecipeServiceConfig,
) RecipeService {
	return &recipeService{
		recipeRepo:      recipeRepo,
		tagRepo:         tagRepo,
		ingredientRepo:  ingredientRepo,
		subRepo:         subRepo,
		images:          images,
		validator:       NewRecipeValidator(cfg.Limits),
		shortLinkBase:   cfg.ShortLinkBase,
		shortLinkLength: cfg.ShortLinkLength,
	}
}

// knownIDs fetches which of the referenced catalogue ids exist.
func (s *recipeService) knownIDs(input RecipeInput) (map[uint]bool, map[uint]bool, error) {
	tags, err := s.tagRepo.FindByIDs(input.TagIDs)
	if err != nil {
		return nil, nil, err
	}
	knownTags := make(map[uint]bool, len(tags))
	for _, tag := range tags {
		knownTags[tag.ID] = true
	}

	ids := make([]uint, 0, len(input.Ingredients))
	for _, item := range input.Ingredients {
		ids = append(ids, item.ID)
	}
	ingredients, err := s.ingredientRepo.FindByIDs(ids)
	if err != nil {
		return nil, nil, err
	}
	knownIngredients := make(map[uint]bool, len(ingredients))
	for _, ingredient := range ingredients {
		knownIngredients[ingredient.ID] = true
	}
	return knownTags, knownIngredients, nil
}

func (s *recipeService) validate(input RecipeInput, requireImage bool) (RecipeInput, error) {
	knownTags, knownIngredients, err := s.knownIDs(input)
	if err != nil {
		return input, err
	}
	return s.validator.Validate(input, knownTags, knownIngredients, requireImage)
}

func quantities(items []IngredientAmount) []model.IngredientQuantity {
	out := make([]model.IngredientQuantity, 0, len(items))
	for _, item := range items {
		out = append(out, model.IngredientQuantity{IngredientID: item.ID, Amount: item.Amount})
	}
	return out
}

// storeImage uploads a data URL and returns the stored image URL. Anything
// else is an image FieldError. Without a configured store the value is
// kept as it is.
func (s *recipeService) storeImage(ctx context.Context, image string) (string, error) {
	if image == "" || s.images == nil {
		return image, nil
	}
	if _, err := storage.DecodeDataURL(image); err != nil {
		return "", &FieldError{Field: "image", Err: err}
	}
	return s.images.SaveDataURL(ctx, "recipes", image)
}

func (s *recipeService) Create(ctx context.Context, author Viewer, input RecipeInput) (*RecipeView, error) {
	logger.Info("Creating recipe", map[string]interface{}{
		"author_id": author.UserID,
		"name":      input.Name,
	})

	input, err := s.validate(input, true)
	if err != nil {
		logger.Warn("Recipe rejected by validation", map[string]interface{}{
			"author_id": author.UserID,
			"error":     err.Error(),
		})
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, input.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:    author.UserID,
		Name:        input.Name,
		Text:        input.Text,
		Image:       imageURL,
		CookingTime: input.CookingTime,
	}

	err = s.recipeRepo.Transaction(func(tx repository.RecipeRepository) error {
		token, err := s.allocateShortLink(tx)
		if err != nil {
			return err
		}
		recipe.ShortLink = token

		if err := tx.Create(recipe); err != nil {
			return err
		}
		if err := tx.ReplaceTags(recipe.ID, input.TagIDs); err != nil {
			return err
		}
		return tx.ReplaceIngredients(recipe.ID, quantities(input.Ingredients))
	})
	if err != nil {
		s.discardImage(ctx, imageURL)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &FieldError{Field: "name", Err: ErrRecipeNameTaken}
		}
		logger.Error("Failed to create recipe", err, map[string]interface{}{
			"author_id": author.UserID,
		})
		return nil, err
	}

	logger.Info("Recipe created", map[string]interface{}{
		"recipe_id": recipe.ID,
		"author_id": author.UserID,
	})
	return s.Get(author, recipe.ID)
}

func (s *recipeService) allocateShortLink(tx repository.RecipeRepository) (string, error) {
	for attempt := 0; attempt < shortLinkAttempts; attempt++ {
		token, err := util.GenerateShortLink(s.shortLinkLength)
		if err != nil {
			return "", err
		}
		taken, err := tx.ShortLinkExists(token)
		if err != nil {
			return "", err
		}
		if !taken {
			return token, nil
		}
		logger.Warn("Short link collision, retrying", map[string]interface{}{
			"attempt": attempt + 1,
		})
	}
	return "", ErrShortLinkExhausted
}

func (s *recipeService) discardImage(ctx context.Context, url string) {
	if url == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, url); err != nil {
		logger.Warn("Failed to remove orphaned image", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
}

// loadForEdit fetches the recipe and checks the editor may change it.
func (s *recipeService) loadForEdit(editor Viewer, recipeID uint) (*model.Recipe, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	if recipe.AuthorID != editor.UserID && !editor.IsAdmin() {
		logger.Warn("Recipe edit denied", map[string]interface{}{
			"recipe_id": recipeID,
			"user_id":   editor.UserID,
		})
		return nil, ErrForbidden
	}
	return recipe, nil
}

func (s *recipeService) Update(ctx context.Context, editor Viewer, recipeID uint, update RecipeUpdate) (*RecipeView, error) {
	recipe, err := s.loadForEdit(editor, recipeID)
	if err != nil {
		return nil, err
	}

	input := RecipeInput{
		Name:        recipe.Name,
		Text:        recipe.Text,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
		TagIDs:      update.TagIDs,
		Ingredients: update.Ingredients,
	}
	if update.Name != nil {
		input.Name = *update.Name
	}
	if update.Text != nil {
		input.Text = *update.Text
	}
	if update.CookingTime != nil {
		input.CookingTime = *update.CookingTime
	}
	newImage := update.Image != nil && *update.Image != "" && *update.Image != recipe.Image
	if newImage {
		input.Image = *update.Image
	}

	input, err = s.validate(input, false)
	if err != nil {
		return nil, err
	}

	oldImage := recipe.Image
	if newImage {
		if input.Image, err = s.storeImage(ctx, input.Image); err != nil {
			return nil, err
		}
	}

	recipe.Name = input.Name
	recipe.Text = input.Text
	recipe.Image = input.Image
	recipe.CookingTime = input.CookingTime

	err = s.recipeRepo.Transaction(func(tx repository.RecipeRepository) error {
		if err := tx.UpdateFields(recipe); err != nil {
			return err
		}
		if err := tx.ReplaceTags(recipe.ID, input.TagIDs); err != nil {
			return err
		}
		return tx.ReplaceIngredients(recipe.ID, quantities(input.Ingredients))
	})
	if err != nil {
		if newImage {
			s.discardImage(ctx, input.Image)
		}
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, &FieldError{Field: "name", Err: ErrRecipeNameTaken}
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrRecipeNotFound
		}
		logger.Error("Failed to update recipe", err, map[string]interface{}{
			"recipe_id": recipeID,
		})
		return nil, err
	}
	if newImage {
		s.discardImage(ctx, oldImage)
	}

	logger.Info("Recipe updated", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   editor.UserID,
	})
	return s.Get(editor, recipe.ID)
}

func (s *recipeService) Delete(ctx context.Context, editor Viewer, recipeID uint) error {
	recipe, err := s.loadForEdit(editor, recipeID)
	if err != nil {
		return err
	}
	if err := s.recipeRepo.Delete(recipe.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRecipeNotFound
		}
		return err
	}
	s.discardImage(ctx, recipe.Image)

	logger.Info("Recipe deleted", map[string]interface{}{
		"recipe_id": recipeID,
		"user_id":   editor.UserID,
	})
	return nil
}

func (s *recipeService) Get(viewer Viewer, recipeID uint) (*RecipeView, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	views, err := s.decorate(viewer, []model.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *recipeService) List(viewer Viewer, query RecipeQuery) (*RecipePage, error) {
	filter := repository.RecipeFilter{
		AuthorID: query.AuthorID,
		TagSlugs: query.TagSlugs,
		Offset:   query.Offset,
		Limit:    query.Limit,
	}
	if query.IsFavorited || query.IsInShoppingCart {
		// anonymous visitors have no favorites or cart
		if !viewer.Authenticated() {
			return &RecipePage{Items: []RecipeView{}}, nil
		}
		if query.IsFavorited {
			filter.FavoritedBy = viewer.UserID
		}
		if query.IsInShoppingCart {
			filter.InCartOf = viewer.UserID
		}
	}

	recipes, total, err := s.recipeRepo.List(filter)
	if err != nil {
		return nil, err
	}
	views, err := s.decorate(viewer, recipes)
	if err != nil {
		return nil, err
	}
	return &RecipePage{Items: views, Total: total}, nil
}

// decorate attaches the viewer flags with one query per flag kind.
func (s *recipeService) decorate(viewer Viewer, recipes []model.Recipe) ([]RecipeView, error) {
	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	flags, err := s.recipeRepo.ViewerFlags(viewer.UserID, recipeIDs)
	if err != nil {
		return nil, err
	}
	subscribed, err := s.subRepo.SubscribedAuthorIDs(viewer.UserID, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]RecipeView, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		views = append(views, RecipeView{
			Recipe:           r,
			IsFavorited:      flags.Favorited[r.ID],
			IsInShoppingCart: flags.InCart[r.ID],
			AuthorSubscribed: subscribed[r.AuthorID],
		})
	}
	return views, nil
}

func (s *recipeService) GetShortLink(recipeID uint) (string, error) {
	recipe, err := s.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrRecipeNotFound
		}
		return "", err
	}
	return fmt.Sprintf("%s/s/%s", s.shortLinkBase, recipe.ShortLink), nil
}

func (s *recipeService) ResolveShortLink(token string) (uint, error) {
	recipe, err := s.recipeRepo.FindByShortLink(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrRecipeNotFound
		}
		return 0, err
	}
	return recipe.ID, nil
}
