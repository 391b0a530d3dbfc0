package router

import (
	"net"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	apperrors "github.com/ikkim/foodgram-backend/internal/errors"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Controllers groups every HTTP handler set the router mounts.
type Controllers struct {
	Auth         *controller.AuthController
	User         *controller.UserController
	Subscription *controller.SubscriptionController
	Recipe       *controller.RecipeController
	Favorite     *controller.RelationController
	ShoppingCart *controller.RelationController
	Tag          *controller.TagController
	Ingredient   *controller.IngredientController
	ShortLink    *controller.ShortLinkController
}

type Router struct {
	controllers    Controllers
	authMiddleware *middleware.AuthMiddleware
	registry       *prometheus.Registry
	config         *config.Config
}

// NewRouter builds the router. registry may be nil to disable /metrics.
func NewRouter(
	controllers Controllers,
	authMiddleware *middleware.AuthMiddleware,
	registry *prometheus.Registry,
	cfg *config.Config,
) *Router {
	return &Router{
		controllers:    controllers,
		authMiddleware: authMiddleware,
		registry:       registry,
		config:         cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)
	controller.RegisterValidators()

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(hostMiddleware(r.config.Server.AllowedHosts))
	if r.registry != nil {
		router.Use(middleware.NewMetrics(r.registry).Middleware())
	}
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Foodgram API is running",
		})
	})
	if r.registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})))
	}

	if r.config.Storage.Driver == "local" && strings.HasPrefix(r.config.Storage.MediaURL, "/") {
		router.Static(r.config.Storage.MediaURL, r.config.Storage.MediaRoot)
	}

	router.GET("/s/:token", r.controllers.ShortLink.Resolve)

	authenticate := r.authMiddleware.Authenticate()
	optional := r.authMiddleware.OptionalAuthenticate()

	api := router.Group("/api")
	{
		auth := api.Group("/auth/token")
		{
			auth.POST("/login", r.controllers.Auth.Login)
			auth.POST("/logout", authenticate, r.controllers.Auth.Logout)
		}

		users := api.Group("/users")
		{
			users.GET("", optional, r.controllers.User.ListUsers)
			users.POST("", r.controllers.User.Register)
			users.GET("/me", authenticate, r.controllers.User.Me)
			users.PUT("/me/avatar", authenticate, r.controllers.User.SetAvatar)
			users.DELETE("/me/avatar", authenticate, r.controllers.User.DeleteAvatar)
			users.POST("/set_password", authenticate, r.controllers.User.SetPassword)
			users.GET("/subscriptions", authenticate, r.controllers.Subscription.ListSubscriptions)
			users.GET("/:id", optional, r.controllers.User.GetUser)
			users.DELETE("/:id",
				authenticate,
				r.authMiddleware.RequireRole(model.RoleAdmin),
				r.controllers.User.DeleteUser,
			)
			users.POST("/:id/subscribe", authenticate, r.controllers.Subscription.Subscribe)
			users.DELETE("/:id/subscribe", authenticate, r.controllers.Subscription.Unsubscribe)
		}

		tags := api.Group("/tags")
		{
			tags.GET("", r.controllers.Tag.ListTags)
			tags.GET("/:id", r.controllers.Tag.GetTag)
		}

		ingredients := api.Group("/ingredients")
		{
			ingredients.GET("", r.controllers.Ingredient.ListIngredients)
			ingredients.GET("/:id", r.controllers.Ingredient.GetIngredient)
		}

		recipes := api.Group("/recipes")
		{
			recipes.GET("", optional, r.controllers.Recipe.ListRecipes)
			recipes.POST("", authenticate, r.controllers.Recipe.CreateRecipe)
			recipes.GET("/download_shopping_cart", authenticate, r.controllers.Recipe.DownloadShoppingCart)
			recipes.GET("/:id", optional, r.controllers.Recipe.GetRecipe)
			recipes.PATCH("/:id", authenticate, r.controllers.Recipe.UpdateRecipe)
			recipes.DELETE("/:id", authenticate, r.controllers.Recipe.DeleteRecipe)
			recipes.GET("/:id/get-link", r.controllers.Recipe.GetShortLink)
			recipes.POST("/:id/favorite", authenticate, r.controllers.Favorite.Add)
			recipes.DELETE("/:id/favorite", authenticate, r.controllers.Favorite.Remove)
			recipes.POST("/:id/shopping_cart", authenticate, r.controllers.ShoppingCart.Add)
			recipes.DELETE("/:id/shopping_cart", authenticate, r.controllers.ShoppingCart.Remove)
		}
	}

	return router
}

// hostMiddleware rejects requests whose Host header is not listed. An empty
// list or a "*" entry accepts every host.
func hostMiddleware(allowedHosts []string) gin.HandlerFunc {
	allowAll := len(allowedHosts) == 0
	allowed := make(map[string]bool, len(allowedHosts))
	for _, host := range allowedHosts {
		if host == "*" {
			allowAll = true
		}
		allowed[strings.ToLower(host)] = true
	}

	return func(c *gin.Context) {
		if allowAll {
			c.Next()
			return
		}

		host := c.Request.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		if !allowed[strings.ToLower(host)] {
			middleware.GetLoggerFromContext(c).Warn("Request host not allowed", map[string]interface{}{
				"host": c.Request.Host,
			})
			apperrors.BadRequest(c, apperrors.RequestInvalidHost, "Invalid host header")
			c.Abort()
			return
		}
		c.Next()
	}
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
