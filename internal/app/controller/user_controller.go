package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

type UserController struct {
	userService service.UserService
	paginator   Paginator
}

func NewUserController(userService service.UserService, paginator Paginator) *UserController {
	return &UserController{
		userService: userService,
		paginator:   paginator,
	}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,max=254,email"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type AvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

// Register creates an account
// POST /api/users
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	user, err := ctrl.userService.Register(service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
	})
	if err != nil {
		respondServiceError(c, err, "register user")
		return
	}

	log.Info("User registered", map[string]interface{}{
		"user_id": user.ID,
	})
	c.JSON(http.StatusCreated, gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	})
}

// ListUsers pages through all users
// GET /api/users
func (ctrl *UserController) ListUsers(c *gin.Context) {
	page, err := ctrl.paginator.Parse(c)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "invalid page or limit")
		return
	}

	profiles, total, err := ctrl.userService.List(viewerFrom(c), page.Offset(), page.Limit)
	if err != nil {
		respondServiceError(c, err, "list users")
		return
	}
	ctrl.paginator.Respond(c, page, total, newProfileResponses(profiles))
}

// GET /api/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	profile, err := ctrl.userService.Get(viewerFrom(c), id)
	if err != nil {
		respondServiceError(c, err, "get user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(profile.User, profile.IsSubscribed))
}

// GET /api/users/me
func (ctrl *UserController) Me(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	profile, err := ctrl.userService.Get(viewer, viewer.UserID)
	if err != nil {
		respondServiceError(c, err, "get current user")
		return
	}
	c.JSON(http.StatusOK, newUserResponse(profile.User, profile.IsSubscribed))
}

// DeleteUser removes an account and everything it owns (admin only)
// DELETE /api/users/:id
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	viewer, ok := requireViewer(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.userService.Delete(c.Request.Context(), viewer, id); err != nil {
		respondServiceError(c, err, "delete user")
		return
	}

	log.Info("User deleted", map[string]interface{}{
		"user_id":  id,
		"admin_id": viewer.UserID,
	})
	c.Status(http.StatusNoContent)
}

// SetPassword changes the caller's password
// POST /api/users/set_password
func (ctrl *UserController) SetPassword(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	var req SetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := ctrl.userService.SetPassword(viewer.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, "set password")
		return
	}
	c.Status(http.StatusNoContent)
}

// SetAvatar stores a base64 data URL as the caller's avatar
// PUT /api/users/me/avatar
func (ctrl *UserController) SetAvatar(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	var req AvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	url, err := ctrl.userService.SetAvatar(c.Request.Context(), viewer.UserID, req.Avatar)
	if err != nil {
		respondServiceError(c, err, "update avatar")
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar": url})
}

// DELETE /api/users/me/avatar
func (ctrl *UserController) DeleteAvatar(c *gin.Context) {
	viewer, ok := requireViewer(c)
	if !ok {
		return
	}

	if err := ctrl.userService.DeleteAvatar(c.Request.Context(), viewer.UserID); err != nil {
		respondServiceError(c, err, "delete avatar")
		return
	}
	c.Status(http.StatusNoContent)
}
