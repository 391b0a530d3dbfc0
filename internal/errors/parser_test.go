package errors

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		context  string
		wantCode string
	}{
		{"nil error", nil, "recipe", InternalServerError},
		{"record not found", gorm.ErrRecordNotFound, "recipe", ResourceNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", gorm.ErrRecordNotFound), "user", ResourceNotFound},
		{"translated duplicate", gorm.ErrDuplicatedKey, "recipe", ResourceAlreadyExists},
		{"postgres duplicate username", fmt.Errorf(`ERROR: duplicate key value violates unique constraint "idx_users_username"`), "user", UserUsernameTaken},
		{"sqlite duplicate email", fmt.Errorf("UNIQUE constraint failed: users.email"), "user", UserEmailTaken},
		{"recipe name per author", fmt.Errorf(`duplicate key value violates unique constraint "idx_recipe_author_name"`), "recipe", RecipeNameTaken},
		{"foreign key", gorm.ErrForeignKeyViolated, "recipe", ResourceNotFound},
		{"check constraint", fmt.Errorf(`new row violates check constraint "chk_ingredient_quantities_amount"`), "recipe", ValidationInvalidRange},
		{"unknown", fmt.Errorf("something odd"), "create recipe", InternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ParseError(tt.err, tt.context)
			assert.Equal(t, tt.wantCode, info.Code)
			assert.NotEmpty(t, info.Message)
		})
	}
}

func TestParseError_DoesNotLeakDriverText(t *testing.T) {
	info := ParseError(fmt.Errorf(`pq: relation "secret_table" does not exist`), "update recipe")
	assert.NotContains(t, info.Message, "secret_table")
	assert.Equal(t, "Failed to update, please try again later", info.Message)
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, IsDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKey(fmt.Errorf("UNIQUE constraint failed: favorites.user_id, favorites.recipe_id")))
	assert.False(t, IsDuplicateKey(gorm.ErrRecordNotFound))
	assert.False(t, IsDuplicateKey(nil))
}

func TestRespondWithValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithFieldError(c, "tags", "At least one tag is required")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"VALIDATION_INVALID_INPUT","message":"Request validation failed","fields":{"tags":"At least one tag is required"}}`, w.Body.String())
}
