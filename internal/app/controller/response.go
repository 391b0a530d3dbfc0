package controller

import (
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/service"
)

// UserResponse is a user as rendered to another user.
type UserResponse struct {
	ID           uint    `json:"id"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Email        string  `json:"email"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

type RecipeIngredientResponse struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []model.Tag                `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// ShortRecipeResponse is the compact form used by favorites, the cart and
// subscription previews.
type ShortRecipeResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

type SubscriptionResponse struct {
	UserResponse
	RecipesCount int64                 `json:"recipes_count"`
	Recipes      []ShortRecipeResponse `json:"recipes"`
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func newUserResponse(user *model.User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		IsSubscribed: subscribed,
		Avatar:       nullable(user.Avatar),
	}
}

func newProfileResponses(profiles []service.UserProfile) []UserResponse {
	out := make([]UserResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, newUserResponse(p.User, p.IsSubscribed))
	}
	return out
}

func newRecipeResponse(view *service.RecipeView) RecipeResponse {
	r := view.Recipe

	tags := r.Tags
	if tags == nil {
		tags = []model.Tag{}
	}
	ingredients := make([]RecipeIngredientResponse, 0, len(r.Ingredients))
	for _, q := range r.Ingredients {
		ingredients = append(ingredients, RecipeIngredientResponse{
			ID:              q.IngredientID,
			Name:            q.Ingredient.Name,
			MeasurementUnit: q.Ingredient.MeasurementUnit,
			Amount:          q.Amount,
		})
	}

	return RecipeResponse{
		ID:               r.ID,
		Tags:             tags,
		Author:           newUserResponse(&r.Author, view.AuthorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      view.IsFavorited,
		IsInShoppingCart: view.IsInShoppingCart,
		Name:             r.Name,
		Image:            r.Image,
		Text:             r.Text,
		CookingTime:      r.CookingTime,
	}
}

func newRecipeResponses(views []service.RecipeView) []RecipeResponse {
	out := make([]RecipeResponse, 0, len(views))
	for i := range views {
		out = append(out, newRecipeResponse(&views[i]))
	}
	return out
}

func newShortRecipeResponse(r *model.Recipe) ShortRecipeResponse {
	return ShortRecipeResponse{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

func newSubscriptionResponse(p *service.AuthorProfile) SubscriptionResponse {
	recipes := make([]ShortRecipeResponse, 0, len(p.Recipes))
	for i := range p.Recipes {
		recipes = append(recipes, newShortRecipeResponse(&p.Recipes[i]))
	}
	return SubscriptionResponse{
		UserResponse: newUserResponse(p.User, p.IsSubscribed),
		RecipesCount: p.RecipesCount,
		Recipes:      recipes,
	}
}
