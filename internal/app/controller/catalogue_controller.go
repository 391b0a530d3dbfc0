package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type TagController struct {
	tagService service.TagService
}

func NewTagController(tagService service.TagService) *TagController {
	return &TagController{tagService: tagService}
}

// ListTags returns every tag, unpaginated
// GET /api/tags
func (ctrl *TagController) ListTags(c *gin.Context) {
	tags, err := ctrl.tagService.List()
	if err != nil {
		respondServiceError(c, err, "list tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

// GET /api/tags/:id
func (ctrl *TagController) GetTag(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	tag, err := ctrl.tagService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get tag")
		return
	}
	c.JSON(http.StatusOK, tag)
}

type IngredientController struct {
	ingredientService service.IngredientService
}

func NewIngredientController(ingredientService service.IngredientService) *IngredientController {
	return &IngredientController{ingredientService: ingredientService}
}

// ListIngredients searches the catalogue by name prefix
// GET /api/ingredients
// Query params:
//   - name: case-insensitive prefix (optional)
func (ctrl *IngredientController) ListIngredients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	name := c.Query("name")
	ingredients, err := ctrl.ingredientService.Search(name)
	if err != nil {
		respondServiceError(c, err, "search ingredients")
		return
	}

	log.Debug("Ingredients searched", map[string]interface{}{
		"name":  name,
		"count": len(ingredients),
	})
	c.JSON(http.StatusOK, ingredients)
}

// GET /api/ingredients/:id
func (ctrl *IngredientController) GetIngredient(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	ingredient, err := ctrl.ingredientService.Get(id)
	if err != nil {
		respondServiceError(c, err, "get ingredient")
		return
	}
	c.JSON(http.StatusOK, ingredient)
}
