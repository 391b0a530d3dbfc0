package db

import (
	"testing"

	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_Idempotent(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(conn) })

	require.NoError(t, Seed(conn))
	require.NoError(t, Seed(conn))

	var tags, ingredients int64
	require.NoError(t, conn.Model(&model.Tag{}).Count(&tags).Error)
	require.NoError(t, conn.Model(&model.Ingredient{}).Count(&ingredients).Error)

	assert.Equal(t, int64(len(defaultTags())), tags)
	assert.Equal(t, int64(len(defaultIngredients())), ingredients)
}

func TestTruncateAllTables(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(conn) })

	require.NoError(t, Seed(conn))
	require.NoError(t, TruncateAllTables(conn))

	var tags int64
	require.NoError(t, conn.Model(&model.Tag{}).Count(&tags).Error)
	assert.Zero(t, tags)
}

func TestSetupTestDB_ForeignKeysEnforced(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { CleanupTestDB(conn) })

	err = conn.Create(&model.Favorite{UserID: 42, RecipeID: 42}).Error
	assert.Error(t, err)
}
