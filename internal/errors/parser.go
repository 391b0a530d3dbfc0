package errors

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is a client-safe description of an internal error.
type ErrorInfo struct {
	Code    string
	Message string
}

// IsDuplicateKey reports whether err is a unique constraint violation from
// any of the supported drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// ParseError converts a storage error into a code and message that do not
// leak driver details. context names the resource, e.g. "recipe".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(err.Error())
	}

	if IsForeignKeyViolation(err) {
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced object does not exist"}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidRange, Message: "A value is out of the allowed range"}
	}
	if strings.Contains(lower, "not null constraint") || strings.Contains(lower, "violates not-null") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "timeout") {
		return ErrorInfo{Code: InternalDatabaseError, Message: "Storage is temporarily unavailable"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultErrorMessage(context)}
}

func parseDuplicateKeyError(errStr string) ErrorInfo {
	lower := strings.ToLower(errStr)

	switch {
	case strings.Contains(lower, "username"):
		return ErrorInfo{Code: UserUsernameTaken, Message: "A user with that username already exists"}
	case strings.Contains(lower, "email"):
		return ErrorInfo{Code: UserEmailTaken, Message: "A user with that email already exists"}
	case strings.Contains(lower, "idx_recipe_author_name") || strings.Contains(lower, "recipes.name"):
		return ErrorInfo{Code: RecipeNameTaken, Message: "You already have a recipe with this name"}
	case strings.Contains(lower, "favorite") || strings.Contains(lower, "cart"):
		return ErrorInfo{Code: LinkAlreadyExists, Message: "The recipe has already been added"}
	case strings.Contains(lower, "subscription"):
		return ErrorInfo{Code: SubscriptionAlreadyExists, Message: "You are already subscribed to this user"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "The object already exists"}
}

func notFoundMessage(context string) string {
	lower := strings.ToLower(context)
	for _, name := range []string{"recipe", "user", "tag", "ingredient"} {
		if strings.Contains(lower, name) {
			return strings.ToUpper(name[:1]) + name[1:] + " not found"
		}
	}
	return "The requested object was not found"
}

func defaultErrorMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Failed to create, please try again later"
	case strings.Contains(lower, "update"):
		return "Failed to update, please try again later"
	case strings.Contains(lower, "delete"):
		return "Failed to delete, please try again later"
	}
	return "Internal server error, please try again later"
}

// ParseAndRespond parses err and writes it with statusCode.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, statusCode int, err error, context string) {
	info := ParseError(err, context)
	c.JSON(statusCode, ErrorResponse{
		Error:   info.Code,
		Message: info.Message,
	})
}
