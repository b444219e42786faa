package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// IAuthService defines the interface for authentication operations
type IAuthService interface {
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	Logout(ctx context.Context, claims *types.TokenClaims) error
	ValidateToken(token string) (*types.TokenClaims, error)
	GenerateToken(claims *types.TokenClaims) (string, error)
}

// IUserService defines the interface for account operations
type IUserService interface {
	Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error)
}

// ICatalogService defines the interface for tag and ingredient lookups
type ICatalogService interface {
	ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	CreateIngredient(ctx context.Context, req *types.CreateIngredientRequest) (*models.Ingredient, error)
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error)
	CreateTag(ctx context.Context, req *types.CreateTagRequest) (*models.Tag, error)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, identity *types.Identity, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, identity *types.Identity, id uuid.UUID) error
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter, page types.PageRequest) ([]models.Recipe, int64, error)
}

// IMembershipService is a user-to-recipe set such as favorites or the cart
type IMembershipService interface {
	Add(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error)
	Remove(ctx context.Context, userID, recipeID uuid.UUID) error
	Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
}

// ISubscriptionService defines the interface for following authors
type ISubscriptionService interface {
	Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error)
	Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error
	Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error)
	List(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]models.User, int64, error)
}

// IShoppingListService defines the interface for shopping list export
type IShoppingListService interface {
	Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error)
}

var (
	_ IAuthService         = (*AuthService)(nil)
	_ IUserService         = (*UserService)(nil)
	_ ICatalogService      = (*CatalogService)(nil)
	_ IRecipeService       = (*RecipeService)(nil)
	_ IMembershipService   = (*MembershipService)(nil)
	_ ISubscriptionService = (*SubscriptionService)(nil)
	_ IShoppingListService = (*ShoppingListService)(nil)
)
