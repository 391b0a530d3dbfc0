package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type ShortLinkController struct {
	recipeService service.RecipeService
	recipePage    string
}

// NewShortLinkController redirects to recipePage, a format with one %d verb
// for the recipe id.
func NewShortLinkController(recipeService service.RecipeService, recipePage string) *ShortLinkController {
	return &ShortLinkController{
		recipeService: recipeService,
		recipePage:    recipePage,
	}
}

// Resolve redirects a short link to the recipe page
// GET /s/:token
func (ctrl *ShortLinkController) Resolve(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	token := c.Param("token")
	id, err := ctrl.recipeService.ResolveShortLink(token)
	if err != nil {
		respondServiceError(c, err, "resolve short link")
		return
	}

	log.Debug("Short link resolved", map[string]interface{}{
		"token":     token,
		"recipe_id": id,
	})
	c.Redirect(http.StatusFound, fmt.Sprintf(ctrl.recipePage, id))
}
