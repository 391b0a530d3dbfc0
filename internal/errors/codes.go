package errors

// Error codes returned in the "error" field of every error body.
// Format: CATEGORY_DETAIL. Clients map on the code, never on the message.

const (
	// Authentication
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthWrongPassword      = "AUTH_WRONG_PASSWORD"

	// Authorization
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"
	AuthzAuthorOnly   = "AUTHZ_AUTHOR_ONLY"

	// Validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// Requests
	RequestInvalidHost = "REQUEST_INVALID_HOST"

	// Resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// Users
	UserNotFound      = "USER_NOT_FOUND"
	UserUsernameTaken = "USER_USERNAME_TAKEN"
	UserEmailTaken    = "USER_EMAIL_TAKEN"

	// Recipes
	RecipeNotFound     = "RECIPE_NOT_FOUND"
	RecipeNameTaken    = "RECIPE_NAME_TAKEN"
	TagNotFound        = "TAG_NOT_FOUND"
	IngredientNotFound = "INGREDIENT_NOT_FOUND"

	// Favorites and shopping cart
	LinkAlreadyExists = "LINK_ALREADY_EXISTS"
	LinkNotFound      = "LINK_NOT_FOUND"

	// Subscriptions
	SubscriptionSelf          = "SUBSCRIPTION_SELF"
	SubscriptionAlreadyExists = "SUBSCRIPTION_ALREADY_EXISTS"
	SubscriptionNotFound      = "SUBSCRIPTION_NOT_FOUND"

	// Uploads
	UploadInvalidImage = "UPLOAD_INVALID_IMAGE"
	UploadFailed       = "UPLOAD_FAILED"

	// Internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
