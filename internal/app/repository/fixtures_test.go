package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: conn,
	}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func createUser(t *testing.T, conn *gorm.DB, username string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "hashed",
		Role:         model.RoleRegular,
	}
	require.NoError(t, conn.Create(user).Error)
	return user
}

func createTag(t *testing.T, conn *gorm.DB, slug string) *model.Tag {
	t.Helper()
	tag := &model.Tag{Name: "Tag " + slug, Slug: slug}
	require.NoError(t, conn.Create(tag).Error)
	return tag
}

func createIngredient(t *testing.T, conn *gorm.DB, name, unit string) *model.Ingredient {
	t.Helper()
	ingredient := &model.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, conn.Create(ingredient).Error)
	return ingredient
}

// createRecipe stores a recipe with the given tags and (ingredient, amount) pairs.
func createRecipe(t *testing.T, repo RecipeRepository, author *model.User, name string, tags []*model.Tag, amounts map[*model.Ingredient]int) *model.Recipe {
	t.Helper()
	recipe := &model.Recipe{
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Mix and serve.",
		CookingTime: 10,
	}
	token, err := util.GenerateShortLink(10)
	require.NoError(t, err)
	recipe.ShortLink = token

	err = repo.Transaction(func(tx RecipeRepository) error {
		if err := tx.Create(recipe); err != nil {
			return err
		}
		tagIDs := make([]uint, 0, len(tags))
		for _, tag := range tags {
			tagIDs = append(tagIDs, tag.ID)
		}
		if err := tx.ReplaceTags(recipe.ID, tagIDs); err != nil {
			return err
		}
		items := make([]model.IngredientQuantity, 0, len(amounts))
		for ingredient, amount := range amounts {
			items = append(items, model.IngredientQuantity{IngredientID: ingredient.ID, Amount: amount})
		}
		return tx.ReplaceIngredients(recipe.ID, items)
	})
	require.NoError(t, err)
	return recipe
}
