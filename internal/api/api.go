package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
)

// Deps wires the handlers to their services. RecipeLimiter may be nil.
type Deps struct {
	DB            *gorm.DB
	Auth          service.IAuthService
	Users         service.IUserService
	Catalog       service.ICatalogService
	Recipes       service.IRecipeService
	Favorites     service.IMembershipService
	ShoppingCart  service.IMembershipService
	Subscriptions service.ISubscriptionService
	ShoppingList  service.IShoppingListService
	Presenter     *service.Presenter
	RecipeLimiter *middleware.RateLimiter

	Paging               Paging
	ShoppingListFilename string
}

// SetupAPI registers every resource under group (normally /api).
func SetupAPI(group *gin.RouterGroup, deps Deps) {
	RegisterValidators()

	if deps.Paging.DefaultLimit <= 0 {
		deps.Paging.DefaultLimit = 6
	}
	if deps.ShoppingListFilename == "" {
		deps.ShoppingListFilename = "shopping_list.txt"
	}

	required := middleware.AuthMiddleware(deps.Auth)
	optional := middleware.OptionalAuthMiddleware(deps.Auth)
	admin := middleware.RequireAdmin(deps.DB)

	NewAuthHandler(deps.Auth, required).RegisterRoutes(group)
	NewUserHandler(deps, required, optional).RegisterRoutes(group)
	NewCatalogHandler(deps.Catalog, required, admin).RegisterRoutes(group)
	NewRecipeHandler(deps, required, optional).RegisterRoutes(group)
}
