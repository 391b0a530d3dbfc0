package repository

import (
	"errors"
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestUserRepository_Create(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewUserRepository(testDB)

	tests := []struct {
		name    string
		user    *model.User
		wantErr error
	}{
		{
			name: "Valid user",
			user: &model.User{Username: "anna", Email: "anna@example.com", FirstName: "Anna", LastName: "K", PasswordHash: "h"},
		},
		{
			name:    "Duplicate username",
			user:    &model.User{Username: "anna", Email: "other@example.com", FirstName: "A", LastName: "K", PasswordHash: "h"},
			wantErr: gorm.ErrDuplicatedKey,
		},
		{
			name:    "Duplicate email",
			user:    &model.User{Username: "anna2", Email: "anna@example.com", FirstName: "A", LastName: "K", PasswordHash: "h"},
			wantErr: gorm.ErrDuplicatedKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(tt.user)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, tt.user.ID)
			assert.Equal(t, model.RoleRegular, tt.user.Role)
		})
	}
}

func TestUserRepository_Lookups(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewUserRepository(testDB)
	user := createUser(t, testDB, "boris")

	byID, err := repo.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "boris", byID.Username)

	byEmail, err := repo.FindByEmail("boris@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.FindByUsername("boris")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	_, err = repo.FindByID(999)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	taken, err := repo.UsernameExists("boris")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.EmailExists("nobody@example.com")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestUserRepository_ListAndUpdates(t *testing.T) {
	testDB := setupTestDB(t)
	repo := NewUserRepository(testDB)
	first := createUser(t, testDB, "first")
	createUser(t, testDB, "second")
	createUser(t, testDB, "third")

	users, total, err := repo.List(1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, users, 1)
	assert.Equal(t, "second", users[0].Username)

	require.NoError(t, repo.UpdatePassword(first.ID, "new-hash"))
	require.NoError(t, repo.UpdateAvatar(first.ID, "http://media/avatar.png"))

	updated, err := repo.FindByID(first.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", updated.PasswordHash)
	assert.Equal(t, "http://media/avatar.png", updated.Avatar)

	err = repo.UpdateAvatar(999, "")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUserRepository_DeleteCascades(t *testing.T) {
	testDB := setupTestDB(t)
	users := NewUserRepository(testDB)
	recipes := NewRecipeRepository(testDB)
	subs := NewSubscriptionRepository(testDB)

	doomed := createUser(t, testDB, "doomed")
	other := createUser(t, testDB, "other")
	tag := createTag(t, testDB, "lunch")
	rice := createIngredient(t, testDB, "rice", "g")

	own := createRecipe(t, recipes, doomed, "Own", []*model.Tag{tag}, map[*model.Ingredient]int{rice: 1})
	foreign := createRecipe(t, recipes, other, "Foreign", nil, nil)

	require.NoError(t, NewRelationRepository[model.Favorite](testDB).Create(other.ID, own.ID))
	require.NoError(t, NewRelationRepository[model.ShoppingCartEntry](testDB).Create(doomed.ID, foreign.ID))
	require.NoError(t, subs.Create(&model.Subscription{UserID: doomed.ID, AuthorID: other.ID}))
	require.NoError(t, subs.Create(&model.Subscription{UserID: other.ID, AuthorID: doomed.ID}))

	require.NoError(t, users.Delete(doomed.ID))

	for _, m := range []interface{}{&model.Favorite{}, &model.ShoppingCartEntry{}, &model.Subscription{}, &model.IngredientQuantity{}} {
		var count int64
		require.NoError(t, testDB.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	exists, err := recipes.Exists(own.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = recipes.Exists(foreign.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	err = users.Delete(doomed.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}
