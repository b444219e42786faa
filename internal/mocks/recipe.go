package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

var _ service.IRecipeService = (*MockRecipeService)(nil)

func (m *MockRecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, authorID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) UpdateRecipe(ctx context.Context, identity *types.Identity, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	args := m.Called(ctx, identity, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) DeleteRecipe(ctx context.Context, identity *types.Identity, id uuid.UUID) error {
	args := m.Called(ctx, identity, id)
	return args.Error(0)
}

func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter, page types.PageRequest) ([]models.Recipe, int64, error) {
	args := m.Called(ctx, viewer, filter, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Recipe), args.Get(1).(int64), args.Error(2)
}

// MockShoppingListService is a mock implementation of the shopping list service
type MockShoppingListService struct {
	mock.Mock
}

var _ service.IShoppingListService = (*MockShoppingListService)(nil)

func (m *MockShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.ShoppingListItem), args.Error(1)
}
