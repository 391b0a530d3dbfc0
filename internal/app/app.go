// Package app wires repositories, services and controllers into a router.
package app

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodgram-backend/config"
	"github.com/ikkim/foodgram-backend/internal/app/controller"
	"github.com/ikkim/foodgram-backend/internal/app/model"
	"github.com/ikkim/foodgram-backend/internal/app/repository"
	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/internal/middleware"
	"github.com/ikkim/foodgram-backend/internal/router"
	"github.com/ikkim/foodgram-backend/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// App holds the assembled HTTP engine and the services startup code needs.
type App struct {
	Engine      *gin.Engine
	UserService service.UserService
	AuthService service.AuthService
}

// Dependencies are the infrastructure pieces built by the caller.
type Dependencies struct {
	DB       *gorm.DB
	Revoker  service.TokenRevoker
	Images   storage.ImageStore
	Registry *prometheus.Registry // nil disables /metrics
}

func New(cfg *config.Config, deps Dependencies) *App {
	conn := deps.DB

	// Repositories
	userRepo := repository.NewUserRepository(conn)
	tagRepo := repository.NewTagRepository(conn)
	ingredientRepo := repository.NewIngredientRepository(conn)
	recipeRepo := repository.NewRecipeRepository(conn)
	subRepo := repository.NewSubscriptionRepository(conn)
	favoriteRepo := repository.NewRelationRepository[model.Favorite](conn)
	cartRepo := repository.NewRelationRepository[model.ShoppingCartEntry](conn)
	shoppingListRepo := repository.NewShoppingListRepository(conn)

	// Services
	authService := service.NewAuthService(
		userRepo,
		deps.Revoker,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
	)
	userService := service.NewUserService(userRepo, subRepo, deps.Images)
	recipeService := service.NewRecipeService(
		recipeRepo,
		tagRepo,
		ingredientRepo,
		subRepo,
		deps.Images,
		service.RecipeServiceConfig{
			Limits: service.RecipeLimits{
				MaxCookingTime:      cfg.Limits.MaxCookingTime,
				MaxIngredientAmount: cfg.Limits.MaxIngredientAmount,
			},
			ShortLinkBase:   cfg.ShortLink.BaseURL,
			ShortLinkLength: cfg.ShortLink.TokenLength,
		},
	)
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo, recipeRepo)
	shoppingListService := service.NewShoppingListService(shoppingListRepo)

	// Controllers
	paginator := controller.NewPaginator(cfg.Limits)
	controllers := router.Controllers{
		Auth:         controller.NewAuthController(authService),
		User:         controller.NewUserController(userService, paginator),
		Subscription: controller.NewSubscriptionController(subscriptionService, paginator),
		Recipe:       controller.NewRecipeController(recipeService, shoppingListService, paginator),
		Favorite:     controller.NewRelationController(service.NewRelationService[model.Favorite](favoriteRepo, recipeRepo), "favorites"),
		ShoppingCart: controller.NewRelationController(service.NewRelationService[model.ShoppingCartEntry](cartRepo, recipeRepo), "shopping cart"),
		Tag:          controller.NewTagController(service.NewTagService(tagRepo)),
		Ingredient:   controller.NewIngredientController(service.NewIngredientService(ingredientRepo)),
		ShortLink:    controller.NewShortLinkController(recipeService, cfg.ShortLink.RecipePage),
	}

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret, deps.Revoker)
	r := router.NewRouter(controllers, authMiddleware, deps.Registry, cfg)

	return &App{
		Engine:      r.Setup(),
		UserService: userService,
		AuthService: authService,
	}
}
