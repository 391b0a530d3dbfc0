package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

// RelationController serves the favorite and shopping cart endpoints, which
// differ only in the list they write to.
type RelationController struct {
	relationService service.RelationService
	list            string
}

func NewRelationController(relationService service.RelationService, list string) *RelationController {
	return &RelationController{
		relationService: relationService,
		list:            list,
	}
}

// Add puts the recipe into the caller's list
// POST /api/recipes/:id/favorite, POST /api/recipes/:id/shopping_cart
func (ctrl *RelationController) Add(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	recipe, err := ctrl.relationService.Link(viewer.UserID, id)
	if err != nil {
		respondServiceError(c, err, "add to "+ctrl.list)
		return
	}

	log.Info("Recipe added", map[string]interface{}{
		"list":      ctrl.list,
		"recipe_id": id,
	})
	c.JSON(http.StatusCreated, newShortRecipeResponse(recipe))
}

// Remove takes the recipe out of the caller's list
// DELETE /api/recipes/:id/favorite, DELETE /api/recipes/:id/shopping_cart
func (ctrl *RelationController) Remove(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.relationService.Unlink(viewer.UserID, id); err != nil {
		respondServiceError(c, err, "remove from "+ctrl.list)
		return
	}
	c.Status(http.StatusNoContent)
}
