package service

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecipeValidator_Tags(t *testing.T) {
	v := NewRecipeValidator(RecipeLimits{})
	known := map[uint]bool{1: true, 2: true}

	tests := []struct {
		name string
		ids  []uint
		want error
	}{
		{"ok", []uint{1, 2}, nil},
		{"empty", nil, ErrEmptyTagList},
		{"unknown", []uint{1, 9}, ErrUnknownTag},
		{"duplicate", []uint{2, 2}, ErrDuplicateTag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ValidateTags(tt.ids, known))
		})
	}
}

func TestRecipeValidator_Ingredients(t *testing.T) {
	v := NewRecipeValidator(RecipeLimits{MaxIngredientAmount: 100})
	known := map[uint]bool{1: true, 2: true}

	tests := []struct {
		name  string
		items []IngredientAmount
		want  error
	}{
		{"ok", []IngredientAmount{{1, 5}, {2, 100}}, nil},
		{"empty", nil, ErrEmptyIngredientList},
		{"unknown", []IngredientAmount{{7, 1}}, ErrUnknownIngredient},
		{"duplicate", []IngredientAmount{{1, 1}, {1, 2}}, ErrDuplicateIngredient},
		{"zero", []IngredientAmount{{1, 0}}, ErrNonPositiveQuantity},
		{"negative", []IngredientAmount{{1, -3}}, ErrNonPositiveQuantity},
		{"too large is rejected, not clamped", []IngredientAmount{{1, 101}}, ErrQuantityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, v.ValidateIngredients(tt.items, known))
		})
	}
}

func TestRecipeValidator_Validate(t *testing.T) {
	v := NewRecipeValidator(RecipeLimits{})
	tags := map[uint]bool{1: true}
	ingredients := map[uint]bool{3: true}

	good := RecipeInput{
		Name:        "  Soup  ",
		Text:        "Boil.",
		Image:       testImage,
		CookingTime: 15,
		TagIDs:      []uint{1},
		Ingredients: []IngredientAmount{{3, 200}},
	}
	normalized, err := v.Validate(good, tags, ingredients, true)
	require.NoError(t, err)
	assert.Equal(t, "Soup", normalized.Name)

	bad := RecipeInput{
		Name:        strings.Repeat("x", 257),
		CookingTime: 0,
	}
	_, err = v.Validate(bad, tags, ingredients, true)
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.Fields()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "text")
	assert.Contains(t, fields, "image")
	assert.Contains(t, fields, "cooking_time")
	assert.Contains(t, fields, "tags")
	assert.Contains(t, fields, "ingredients")

	assert.ErrorIs(t, err, ErrEmptyTagList)
	assert.ErrorIs(t, err, ErrEmptyIngredientList)
	assert.ErrorIs(t, err, ErrInvalidCookingTime)
}

func TestRecipeValidator_CookingTimeBounds(t *testing.T) {
	v := NewRecipeValidator(RecipeLimits{MaxCookingTime: 60})
	base := RecipeInput{Name: "n", Text: "t", TagIDs: []uint{1}, Ingredients: []IngredientAmount{{1, 1}}}
	known := map[uint]bool{1: true}

	for _, minutes := range []int{1, 60} {
		base.CookingTime = minutes
		_, err := v.Validate(base, known, known, false)
		assert.NoError(t, err, minutes)
	}
	for _, minutes := range []int{0, 61} {
		base.CookingTime = minutes
		_, err := v.Validate(base, known, known, false)
		assert.ErrorIs(t, err, ErrInvalidCookingTime, minutes)
	}
}

func TestValidateRegistration(t *testing.T) {
	valid := RegisterInput{
		Username:  "vasya.pupkin",
		Email:     "vasya@example.com",
		FirstName: "Vasya",
		LastName:  "Pupkin",
		Password:  "p4ssw0rd",
	}

	tests := []struct {
		name          string
		mutate        func(*RegisterInput)
		usernameTaken bool
		emailTaken    bool
		field         string
		want          error
	}{
		{name: "valid", mutate: func(*RegisterInput) {}},
		{name: "username too long", mutate: func(in *RegisterInput) { in.Username = strings.Repeat("a", 151) }, field: "username", want: ErrUsernameTooLong},
		{name: "username pattern", mutate: func(in *RegisterInput) { in.Username = "bad name!" }, field: "username", want: ErrInvalidUsernamePattern},
		{name: "username reserved", mutate: func(in *RegisterInput) { in.Username = "me" }, field: "username", want: ErrUsernameReserved},
		{name: "username taken", mutate: func(*RegisterInput) {}, usernameTaken: true, field: "username", want: ErrUsernameTaken},
		{name: "email taken", mutate: func(*RegisterInput) {}, emailTaken: true, field: "email", want: ErrEmailTaken},
		{name: "email too long", mutate: func(in *RegisterInput) { in.Email = strings.Repeat("a", 250) + "@example.com" }, field: "email", want: ErrEmailTooLong},
		{name: "email invalid", mutate: func(in *RegisterInput) { in.Email = "not-an-email" }, field: "email", want: ErrInvalidEmail},
		{name: "first name missing", mutate: func(in *RegisterInput) { in.FirstName = " " }, field: "first_name", want: ErrPersonNameRequired},
		{name: "password too long", mutate: func(in *RegisterInput) { in.Password = strings.Repeat("p", 73) }, field: "password", want: ErrPasswordTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			err := ValidateRegistration(in, tt.usernameTaken, tt.emailTaken)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.Fields(), tt.field)
		})
	}
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("user_name@host.org+x-1"))
	assert.False(t, ValidUsername("with space"))
	assert.False(t, ValidUsername(""))
}
