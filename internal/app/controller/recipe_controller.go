package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/export"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type RecipeController struct {
	recipeService       service.RecipeService
	shoppingListService service.ShoppingListService
	paginator           Paginator
}

func NewRecipeController(
	recipeService service.RecipeService,
	shoppingListService service.ShoppingListService,
	paginator Paginator,
) *RecipeController {
	return &RecipeController{
		recipeService:       recipeService,
		shoppingListService: shoppingListService,
		paginator:           paginator,
	}
}

type IngredientAmountRequest struct {
	ID     uint `json:"id" binding:"required"`
	Amount int  `json:"amount"`
}

type CreateRecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,dive"`
	Tags        []uint                    `json:"tags" binding:"required"`
	Image       string                    `json:"image" binding:"required"`
	Name        string                    `json:"name" binding:"required"`
	Text        string                    `json:"text" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
}

// UpdateRecipeRequest omits what stays unchanged, except tags and
// ingredients which are always replaced.
type UpdateRecipeRequest struct {
	Ingredients []IngredientAmountRequest `json:"ingredients" binding:"required,dive"`
	Tags        []uint                    `json:"tags" binding:"required"`
	Image       *string                   `json:"image"`
	Name        *string                   `json:"name"`
	Text        *string                   `json:"text"`
	CookingTime *int                      `json:"cooking_time"`
}

func amounts(items []IngredientAmountRequest) []service.IngredientAmount {
	out := make([]service.IngredientAmount, 0, len(items))
	for _, item := range items {
		out = append(out, service.IngredientAmount{ID: item.ID, Amount: item.Amount})
	}
	return out
}

// flag reads a 0/1 (or true/false) query switch.
func flag(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// ListRecipes returns recipes, newest first
// GET /api/recipes
// Query params:
//   - author: author id
//   - tags: tag slug, repeatable
//   - is_favorited, is_in_shopping_cart: 1 to restrict to the viewer's lists
//   - page, limit
func (ctrl *RecipeController) ListRecipes(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	page, err := ctrl.paginator.Parse(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "invalid page or limit")
		return
	}

	query := service.RecipeQuery{
		TagSlugs:         c.QueryArray("tags"),
		IsFavorited:      flag(c, "is_favorited"),
		IsInShoppingCart: flag(c, "is_in_shopping_cart"),
		Offset:           page.Offset(),
		Limit:            page.Limit,
	}
	if raw := c.Query("author"); raw != "" {
		authorID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			apperrors.RespondWithFieldError(c, "author", "invalid author id")
			return
		}
		query.AuthorID = uint(authorID)
	}

	result, err := ctrl.recipeService.List(viewerFrom(c), query)
	if err != nil {
		respondServiceError(c, err, "list recipes")
		return
	}

	log.Debug("Recipes listed", map[string]interface{}{
		"count": len(result.Items),
		"total": result.Total,
	})
	ctrl.paginator.Respond(c, page, result.Total, newRecipeResponses(result.Items))
}

// GetRecipe returns a single recipe
// GET /api/recipes/:id
func (ctrl *RecipeController) GetRecipe(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	view, err := ctrl.recipeService.Get(viewerFrom(c), id)
	if err != nil {
		respondServiceError(c, err, "get recipe")
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(view))
}

// CreateRecipe publishes a recipe authored by the caller
// POST /api/recipes
func (ctrl *RecipeController) CreateRecipe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	var req CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := ctrl.recipeService.Create(c.Request.Context(), viewer, service.RecipeInput{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: amounts(req.Ingredients),
	})
	if err != nil {
		respondServiceError(c, err, "create recipe")
		return
	}

	log.Info("Recipe created", map[string]interface{}{
		"recipe_id": view.Recipe.ID,
		"author_id": viewer.UserID,
	})
	c.JSON(http.StatusCreated, newRecipeResponse(view))
}

// UpdateRecipe edits a recipe; only its author or an admin may do so
// PATCH /api/recipes/:id
func (ctrl *RecipeController) UpdateRecipe(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	view, err := ctrl.recipeService.Update(c.Request.Context(), viewer, id, service.RecipeUpdate{
		Name:        req.Name,
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
		TagIDs:      req.Tags,
		Ingredients: amounts(req.Ingredients),
	})
	if err != nil {
		respondServiceError(c, err, "update recipe")
		return
	}
	c.JSON(http.StatusOK, newRecipeResponse(view))
}

// DeleteRecipe removes a recipe with its links
// DELETE /api/recipes/:id
func (ctrl *RecipeController) DeleteRecipe(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.recipeService.Delete(c.Request.Context(), viewer, id); err != nil {
		respondServiceError(c, err, "delete recipe")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetShortLink returns the public short URL of a recipe
// GET /api/recipes/:id/get-link
func (ctrl *RecipeController) GetShortLink(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	link, err := ctrl.recipeService.GetShortLink(id)
	if err != nil {
		respondServiceError(c, err, "get short link")
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": link})
}

// DownloadShoppingCart renders the caller's aggregated shopping list
// GET /api/recipes/download_shopping_cart?format=pdf|xlsx
func (ctrl *RecipeController) DownloadShoppingCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		apperrors.RespondWithFieldError(c, "format", err.Error())
		return
	}

	doc, err := ctrl.shoppingListService.Download(viewer.UserID, format)
	if err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			apperrors.RespondWithFieldError(c, "format", err.Error())
			return
		}
		respondServiceError(c, err, "download shopping list")
		return
	}

	log.Info("Shopping list downloaded", map[string]interface{}{
		"user_id": viewer.UserID,
		"format":  format,
	})
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}
