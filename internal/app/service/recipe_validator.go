package service

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyTagList        = errors.New("at least one tag is required")
	ErrUnknownTag          = errors.New("tag does not exist")
	ErrDuplicateTag        = errors.New("tags must not repeat")
	ErrEmptyIngredientList = errors.New("at least one ingredient is required")
	ErrUnknownIngredient   = errors.New("ingredient does not exist")
	ErrDuplicateIngredient = errors.New("ingredients must not repeat")
	ErrNonPositiveQuantity = errors.New("ingredient amount must be greater than 0")
	ErrQuantityTooLarge    = errors.New("ingredient amount exceeds the allowed maximum")
	ErrInvalidCookingTime  = errors.New("cooking time is out of range")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name is too long")
	ErrTextRequired        = errors.New("text is required")
	ErrImageRequired       = errors.New("image is required")
)

// FieldError ties a rejection to the request field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors holds at most one rejection per field.
type ValidationErrors []*FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, fe := range v {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(v))
	for _, fe := range v {
		errs = append(errs, fe)
	}
	return errs
}

// Fields maps field names to messages.
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, fe := range v {
		out[fe.Field] = fe.Err.Error()
	}
	return out
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IngredientAmount is one requested (ingredient, amount) pair.
type IngredientAmount struct {
	ID     uint
	Amount int
}

// RecipeInput is the authoring payload before validation.
type RecipeInput struct {
	Name        string
	Text        string
	Image       string
	CookingTime int
	TagIDs      []uint
	Ingredients []IngredientAmount
}

type RecipeLimits struct {
	MaxNameLength       int
	MaxCookingTime      int
	MaxIngredientAmount int
}

// RecipeValidator checks authoring input against already fetched catalogue
// ids. It never touches storage.
type RecipeValidator struct {
	limits RecipeLimits
}

func NewRecipeValidator(limits RecipeLimits) *RecipeValidator {
	if limits.MaxNameLength <= 0 {
		limits.MaxNameLength = 256
	}
	if limits.MaxCookingTime <= 0 {
		limits.MaxCookingTime = 32000
	}
	if limits.MaxIngredientAmount <= 0 {
		limits.MaxIngredientAmount = 10000
	}
	return &RecipeValidator{limits: limits}
}

// Validate returns the input with its name and text trimmed, or
// ValidationErrors describing every rejected field.
func (v *RecipeValidator) Validate(input RecipeInput, knownTags, knownIngredients map[uint]bool, requireImage bool) (RecipeInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Text = strings.TrimSpace(input.Text)

	var errs ValidationErrors
	add := func(field string, err error) {
		if err != nil {
			errs = append(errs, &FieldError{Field: field, Err: err})
		}
	}

	switch {
	case input.Name == "":
		add("name", ErrNameRequired)
	case utf8.RuneCountInString(input.Name) > v.limits.MaxNameLength:
		add("name", ErrNameTooLong)
	}
	if input.Text == "" {
		add("text", ErrTextRequired)
	}
	if requireImage && input.Image == "" {
		add("image", ErrImageRequired)
	}
	if input.CookingTime < 1 || input.CookingTime > v.limits.MaxCookingTime {
		add("cooking_time", ErrInvalidCookingTime)
	}
	add("tags", v.ValidateTags(input.TagIDs, knownTags))
	add("ingredients", v.ValidateIngredients(input.Ingredients, knownIngredients))

	return input, errs.orNil()
}

func (v *RecipeValidator) ValidateTags(ids []uint, known map[uint]bool) error {
	if len(ids) == 0 {
		return ErrEmptyTagList
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if !known[id] {
			return ErrUnknownTag
		}
		if seen[id] {
			return ErrDuplicateTag
		}
		seen[id] = true
	}
	return nil
}

func (v *RecipeValidator) ValidateIngredients(items []IngredientAmount, known map[uint]bool) error {
	if len(items) == 0 {
		return ErrEmptyIngredientList
	}
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if !known[item.ID] {
			return ErrUnknownIngredient
		}
		if seen[item.ID] {
			return ErrDuplicateIngredient
		}
		seen[item.ID] = true
		if item.Amount <= 0 {
			return ErrNonPositiveQuantity
		}
		if item.Amount > v.limits.MaxIngredientAmount {
			return ErrQuantityTooLarge
		}
	}
	return nil
}
