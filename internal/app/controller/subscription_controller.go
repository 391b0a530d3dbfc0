package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type SubscriptionController struct {
	subscriptionService service.SubscriptionService
	paginator           Paginator
}

func NewSubscriptionController(subscriptionService service.SubscriptionService, paginator Paginator) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
		paginator:           paginator,
	}
}

// recipesLimit reads recipes_limit; 0 means every recipe.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		apperrors.RespondWithFieldError(c, "recipes_limit", "must be a non-negative integer")
		return 0, false
	}
	return n, true
}

// Subscribe follows another user
// POST /api/users/:id/subscribe?recipes_limit=N
func (ctrl *SubscriptionController) Subscribe(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	profile, err := ctrl.subscriptionService.Subscribe(viewer.UserID, id, limit)
	if err != nil {
		respondServiceError(c, err, "subscribe")
		return
	}

	log.Info("Subscribed", map[string]interface{}{
		"user_id":   viewer.UserID,
		"author_id": id,
	})
	c.JSON(http.StatusCreated, newSubscriptionResponse(profile))
}

// DELETE /api/users/:id/subscribe
func (ctrl *SubscriptionController) Unsubscribe(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.subscriptionService.Unsubscribe(viewer.UserID, id); err != nil {
		respondServiceError(c, err, "unsubscribe")
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSubscriptions pages through the authors the caller follows
// GET /api/users/subscriptions?recipes_limit=N
func (ctrl *SubscriptionController) ListSubscriptions(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	page, err := ctrl.paginator.Parse(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "invalid page or limit")
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}

	profiles, total, err := ctrl.subscriptionService.ListSubscriptions(viewer.UserID, page.Offset(), page.Limit, limit)
	if err != nil {
		respondServiceError(c, err, "list subscriptions")
		return
	}

	results := make([]SubscriptionResponse, 0, len(profiles))
	for i := range profiles {
		results = append(results, newSubscriptionResponse(&profiles[i]))
	}
	ctrl.paginator.Respond(c, page, total, results)
}
