package repository

import (
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RecipeFilter narrows List. Zero values disable a filter.
type RecipeFilter struct {
	AuthorID    uint
	TagSlugs    []string
	FavoritedBy uint
	InCartOf    uint
	Offset      int
	Limit       int
}

// ViewerFlags are the per-viewer booleans rendered with each recipe.
type ViewerFlags struct {
	Favorited map[uint]bool
	InCart    map[uint]bool
}

type RecipeRepository interface {
	// Transaction runs fn with a repository bound to one database transaction.
	Transaction(fn func(repo RecipeRepository) error) error
	Create(recipe *model.Recipe) error
	UpdateFields(recipe *model.Recipe) error
	ReplaceTags(recipeID uint, tagIDs []uint) error
	ReplaceIngredients(recipeID uint, items []model.IngredientQuantity) error
	ShortLinkExists(token string) (bool, error)
	FindByID(id uint) (*model.Recipe, error)
	FindByShortLink(token string) (*model.Recipe, error)
	Exists(id uint) (bool, error)
	List(filter RecipeFilter) ([]model.Recipe, int64, error)
	ListByAuthor(authorID uint, limit int) ([]model.Recipe, error)
	CountByAuthors(authorIDs []uint) (map[uint]int64, error)
	ViewerFlags(userID uint, recipeIDs []uint) (*ViewerFlags, error)
	Delete(id uint) error
}

// recipeTag addresses the many2many join table for bulk writes.
type recipeTag struct {
	RecipeID uint
	TagID    uint
}

func (recipeTag) TableName() string {
	return "recipe_tags"
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

func (r *recipeRepository) Transaction(fn func(repo RecipeRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&recipeRepository{db: tx})
	})
}

func (r *recipeRepository) Create(recipe *model.Recipe) error {
	logger.Debug("Creating recipe in database", map[string]interface{}{
		"author_id": recipe.AuthorID,
		"name":      recipe.Name,
	})

	if err := r.db.Omit(clause.Associations).Create(recipe).Error; err != nil {
		logger.Error("Failed to create recipe in database", err, map[string]interface{}{
			"author_id": recipe.AuthorID,
		})
		return err
	}
	return nil
}

// UpdateFields overwrites the scalar columns. Empty strings are written too.
func (r *recipeRepository) UpdateFields(recipe *model.Recipe) error {
	result := r.db.Model(&model.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]interface{}{
		"name":         recipe.Name,
		"text":         recipe.Text,
		"image":        recipe.Image,
		"cooking_time": recipe.CookingTime,
		"updated_at":   time.Now(),
	})
	if result.Error != nil {
		logger.Error("Failed to update recipe", result.Error, map[string]interface{}{
			"recipe_id": recipe.ID,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *recipeRepository) ReplaceTags(recipeID uint, tagIDs []uint) error {
	if err := r.db.Where("recipe_id = ?", recipeID).Delete(&recipeTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]recipeTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		rows = append(rows, recipeTag{RecipeID: recipeID, TagID: id})
	}
	return r.db.Create(&rows).Error
}

func (r *recipeRepository) ReplaceIngredients(recipeID uint, items []model.IngredientQuantity) error {
	if err := r.db.Where("recipe_id = ?", recipeID).Delete(&model.IngredientQuantity{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.IngredientQuantity, 0, len(items))
	for _, item := range items {
		rows = append(rows, model.IngredientQuantity{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	return r.db.Omit(clause.Associations).Create(&rows).Error
}

func (r *recipeRepository) ShortLinkExists(token string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).Where("short_link = ?", token).Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("tags.id ASC")
		}).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredient_quantities.id ASC")
		}).
		Preload("Ingredients.Ingredient")
}

func (r *recipeRepository) FindByID(id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.withDetails(r.db).First(&recipe, id).Error; err != nil {
		logNotFoundOrError("Failed to find recipe by ID", err, map[string]interface{}{
			"recipe_id": id,
		})
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) FindByShortLink(token string) (*model.Recipe, error) {
	var recipe model.Recipe
	if err := r.db.Where("short_link = ?", token).First(&recipe).Error; err != nil {
		logNotFoundOrError("Failed to find recipe by short link", err, map[string]interface{}{
			"short_link": token,
		})
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.Recipe{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *recipeRepository) filterScope(filter RecipeFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.AuthorID != 0 {
			db = db.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if len(filter.TagSlugs) > 0 {
			tagged := r.db.Table("recipe_tags").
				Select("recipe_tags.recipe_id").
				Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
				Where("tags.slug IN ?", filter.TagSlugs)
			db = db.Where("recipes.id IN (?)", tagged)
		}
		if filter.FavoritedBy != 0 {
			db = db.Where("recipes.id IN (?)", r.db.Model(&model.Favorite{}).
				Select("recipe_id").Where("user_id = ?", filter.FavoritedBy))
		}
		if filter.InCartOf != 0 {
			db = db.Where("recipes.id IN (?)", r.db.Model(&model.ShoppingCartEntry{}).
				Select("recipe_id").Where("user_id = ?", filter.InCartOf))
		}
		return db
	}
}

// List returns one page of recipes, newest first, and the total match count.
func (r *recipeRepository) List(filter RecipeFilter) ([]model.Recipe, int64, error) {
	scope := r.filterScope(filter)

	var total int64
	if err := r.db.Model(&model.Recipe{}).Scopes(scope).Count(&total).Error; err != nil {
		logger.Error("Failed to count recipes", err)
		return nil, 0, err
	}

	var recipes []model.Recipe
	query := r.withDetails(r.db.Model(&model.Recipe{})).
		Scopes(scope).
		Order("recipes.created_at DESC").
		Order("recipes.id DESC").
		Offset(filter.Offset)
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to list recipes", err, map[string]interface{}{
			"offset": filter.Offset,
			"limit":  filter.Limit,
		})
		return nil, 0, err
	}

	logger.Debug("Recipes listed", map[string]interface{}{
		"count": len(recipes),
		"total": total,
	})
	return recipes, total, nil
}

// ListByAuthor returns the author's newest recipes. limit <= 0 means all.
func (r *recipeRepository) ListByAuthor(authorID uint, limit int) ([]model.Recipe, error) {
	query := r.db.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var recipes []model.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		logger.Error("Failed to list recipes by author", err, map[string]interface{}{
			"author_id": authorID,
		})
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CountByAuthors(authorIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(authorIDs))
	if len(authorIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		AuthorID uint
		Total    int64
	}
	err := r.db.Model(&model.Recipe{}).
		Select("author_id, COUNT(*) AS total").
		Where("author_id IN ?", authorIDs).
		Group("author_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to count recipes by authors", err)
		return nil, err
	}
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}
	return counts, nil
}

func (r *recipeRepository) ViewerFlags(userID uint, recipeIDs []uint) (*ViewerFlags, error) {
	flags := &ViewerFlags{Favorited: map[uint]bool{}, InCart: map[uint]bool{}}
	if userID == 0 || len(recipeIDs) == 0 {
		return flags, nil
	}

	var favorited, inCart []uint
	if err := r.db.Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &favorited).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.ShoppingCartEntry{}).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &inCart).Error; err != nil {
		return nil, err
	}
	for _, id := range favorited {
		flags.Favorited[id] = true
	}
	for _, id := range inCart {
		flags.InCart[id] = true
	}
	return flags, nil
}

// Delete removes the recipe and every row that references it.
func (r *recipeRepository) Delete(id uint) error {
	logger.Debug("Deleting recipe from database", map[string]interface{}{
		"recipe_id": id,
	})

	return r.db.Transaction(func(tx *gorm.DB) error {
		only := func() *gorm.DB {
			return tx.Model(&model.Recipe{}).Select("id").Where("id = ?", id)
		}
		if err := purgeRecipeChildren(tx, only); err != nil {
			return err
		}
		result := tx.Delete(&model.Recipe{}, id)
		if result.Error != nil {
			logger.Error("Failed to delete recipe", result.Error, map[string]interface{}{
				"recipe_id": id,
			})
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// purgeRecipeChildren deletes link, quantity and tag rows of the recipes
// selected by ids. ids builds a fresh subquery per statement.
func purgeRecipeChildren(tx *gorm.DB, ids func() *gorm.DB) error {
	children := []interface{}{
		&model.Favorite{},
		&model.ShoppingCartEntry{},
		&model.IngredientQuantity{},
		&recipeTag{},
	}
	for _, child := range children {
		if err := tx.Where("recipe_id IN (?)", ids()).Delete(child).Error; err != nil {
			return err
		}
	}
	return nil
}
