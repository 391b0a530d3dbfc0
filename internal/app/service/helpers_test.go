package service

import (
	"encoding/base64"
	"os"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/db"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/ikkim/foodgram-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	util.BcryptCost = bcrypt.MinCost
	os.Exit(m.Run())
}

var testImage = "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})

type testEnv struct {
	db          *gorm.DB
	users       repository.UserRepository
	recipes     repository.RecipeRepository
	subs        repository.SubscriptionRepository
	images      storage.ImageStore
	recipeSvc   RecipeService
	userSvc     UserService
	subSvc      SubscriptionService
	favorites   RelationService
	cart        RelationService
	shoppingSvc ShoppingListService

	tags        []model.Tag
	ingredients []model.Ingredient
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	env := &testEnv{
		db:      testDB,
		users:   repository.NewUserRepository(testDB),
		recipes: repository.NewRecipeRepository(testDB),
		subs:    repository.NewSubscriptionRepository(testDB),
		images:  storage.NewLocalStorage(t.TempDir(), "/media"),
	}
	env.recipeSvc = NewRecipeService(
		env.recipes,
		repository.NewTagRepository(testDB),
		repository.NewIngredientRepository(testDB),
		env.subs,
		env.images,
		RecipeServiceConfig{
			Limits:          RecipeLimits{MaxIngredientAmount: 10000, MaxCookingTime: 32000},
			ShortLinkBase:   "https://foodgram.example.org",
			ShortLinkLength: 6,
		},
	)
	env.userSvc = NewUserService(env.users, env.subs, env.images)
	env.subSvc = NewSubscriptionService(env.subs, env.users, env.recipes)
	env.favorites = NewRelationService[model.Favorite](repository.NewRelationRepository[model.Favorite](testDB), env.recipes)
	env.cart = NewRelationService[model.ShoppingCartEntry](repository.NewRelationRepository[model.ShoppingCartEntry](testDB), env.recipes)
	env.shoppingSvc = NewShoppingListService(repository.NewShoppingListRepository(testDB))

	env.tags = []model.Tag{
		{Name: "Breakfast", Slug: "breakfast"},
		{Name: "Lunch", Slug: "lunch"},
		{Name: "Dinner", Slug: "dinner"},
	}
	require.NoError(t, testDB.Create(&env.tags).Error)
	env.ingredients = []model.Ingredient{
		{Name: "carrot", MeasurementUnit: "g"},
		{Name: "potato", MeasurementUnit: "g"},
		{Name: "milk", MeasurementUnit: "ml"},
	}
	require.NoError(t, testDB.Create(&env.ingredients).Error)
	return env
}

func (e *testEnv) user(t *testing.T, username string) Viewer {
	t.Helper()
	user, err := e.userSvc.Register(RegisterInput{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: "Test",
		LastName:  "User",
		Password:  "secret-password",
	})
	require.NoError(t, err)
	return Viewer{UserID: user.ID, Role: user.Role}
}

func (e *testEnv) admin(t *testing.T) Viewer {
	t.Helper()
	created, err := e.userSvc.EnsureSuperuser("root", "root@example.com", "root-password")
	require.NoError(t, err)
	require.True(t, created)
	admin, err := e.users.FindByUsername("root")
	require.NoError(t, err)
	return Viewer{UserID: admin.ID, Role: admin.Role}
}

func (e *testEnv) input(name string, tagIdx []int, amounts map[int]int) RecipeInput {
	in := RecipeInput{
		Name:        name,
		Text:        "Cook it.",
		Image:       testImage,
		CookingTime: 20,
	}
	for _, i := range tagIdx {
		in.TagIDs = append(in.TagIDs, e.tags[i].ID)
	}
	for i := range e.ingredients {
		if amount, ok := amounts[i]; ok {
			in.Ingredients = append(in.Ingredients, IngredientAmount{ID: e.ingredients[i].ID, Amount: amount})
		}
	}
	return in
}

func (e *testEnv) countRows(t *testing.T, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(m).Count(&n).Error)
	return n
}
