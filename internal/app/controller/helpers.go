package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
)

var registerOnce sync.Once

// RegisterValidators installs the custom binding rules and makes validation
// errors report JSON field names.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return service.ValidUsername(fl.Field().String())
		})
	})
}

func init() {
	RegisterValidators()
}

// bindingFields turns a ShouldBindJSON error into a field map.
func bindingFields(err error) map[string]string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = validationMessage(fe)
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{typeErr.Field: "invalid value type, expected " + typeErr.Type.String()}
	}
	return map[string]string{"non_field_errors": "malformed request body"}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param()
	case "email":
		return "enter a valid email address"
	case "username":
		return service.ErrInvalidUsernamePattern.Error()
	}
	return "invalid value"
}

func respondBindingError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	apperrors.RespondWithValidationError(c, bindingFields(err))
}

// idParam parses a positive numeric path parameter.
func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func viewerFrom(c *gin.Context) service.Viewer {
	var v service.Viewer
	v.UserID, _ = middleware.GetUserID(c)
	v.Role, _ = middleware.GetUserRole(c)
	return v
}

func requireViewer(c *gin.Context) (service.Viewer, bool) {
	v := viewerFrom(c)
	if !v.Authenticated() {
		apperrors.Unauthorized(c, "")
		return v, false
	}
	return v, true
}

// respondServiceError maps a service error onto the error envelope.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	var verrs service.ValidationErrors
	if errors.As(err, &verrs) {
		apperrors.RespondWithValidationError(c, verrs.Fields())
		return
	}
	var fieldErr *service.FieldError
	if errors.As(err, &fieldErr) {
		apperrors.RespondWithFieldError(c, fieldErr.Field, fieldErr.Err.Error())
		return
	}

	switch {
	case errors.Is(err, service.ErrRecipeNotFound):
		apperrors.NotFound(c, apperrors.RecipeNotFound, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrTargetNotFound):
		apperrors.NotFound(c, apperrors.UserNotFound, err.Error())
	case errors.Is(err, service.ErrTagNotFound):
		apperrors.NotFound(c, apperrors.TagNotFound, err.Error())
	case errors.Is(err, service.ErrIngredientNotFound):
		apperrors.NotFound(c, apperrors.IngredientNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAuthorOnly, err.Error())
	case errors.Is(err, service.ErrAdminOnly):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzAdminOnly, err.Error())
	case errors.Is(err, service.ErrAlreadyLinked):
		apperrors.BadRequest(c, apperrors.LinkAlreadyExists, err.Error())
	case errors.Is(err, service.ErrNotLinked):
		apperrors.BadRequest(c, apperrors.LinkNotFound, err.Error())
	case errors.Is(err, service.ErrSelfSubscription):
		apperrors.BadRequest(c, apperrors.SubscriptionSelf, err.Error())
	case errors.Is(err, service.ErrAlreadySubscribed):
		apperrors.BadRequest(c, apperrors.SubscriptionAlreadyExists, err.Error())
	case errors.Is(err, service.ErrNotSubscribed):
		apperrors.BadRequest(c, apperrors.SubscriptionNotFound, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		apperrors.BadRequest(c, apperrors.AuthInvalidCredentials, err.Error())
	default:
		log.Error("Request failed", err, map[string]interface{}{
			"operation": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}
