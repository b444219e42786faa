package service_test

import (
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

type env struct {
	db            *gorm.DB
	catalog       *service.CatalogService
	recipes       *service.RecipeService
	favorites     *service.MembershipService
	cart          *service.MembershipService
	subscriptions *service.SubscriptionService
	shopping      *service.ShoppingListService
	users         *service.UserService
	presenter     *service.Presenter
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithDB(testhelpers.SetupSQLiteDB(t))
}

func newEnvWithDB(db *gorm.DB) *env {
	e := &env{
		db:            db,
		catalog:       service.NewCatalogService(db),
		recipes:       service.NewRecipeService(db),
		favorites:     service.NewFavoriteService(db),
		cart:          service.NewShoppingCartService(db),
		subscriptions: service.NewSubscriptionService(db),
		shopping:      service.NewShoppingListService(db),
		users:         service.NewUserService(db),
	}
	e.presenter = service.NewPresenter(e.favorites, e.cart, e.subscriptions)
	return e
}

// kitchen is a small fixture catalog shared by recipe tests.
type kitchen struct {
	breakfast, dinner       *models.Tag
	flour, sugar, eggs, oil *models.Ingredient
}

func newKitchen(t *testing.T, db *gorm.DB) kitchen {
	t.Helper()
	return kitchen{
		breakfast: testhelpers.CreateTag(t, db, "Breakfast", "#0000FF", "breakfast"),
		dinner:    testhelpers.CreateTag(t, db, "Dinner", "#FF0000", "dinner"),
		flour:     testhelpers.CreateIngredient(t, db, "Flour", "g"),
		sugar:     testhelpers.CreateIngredient(t, db, "Sugar", "g"),
		eggs:      testhelpers.CreateIngredient(t, db, "Eggs", "pcs"),
		oil:       testhelpers.CreateIngredient(t, db, "Oil", "ml"),
	}
}

func (k kitchen) pancakes() *types.CreateRecipeRequest {
	return &types.CreateRecipeRequest{
		Name:        "Pancakes",
		Text:        "Whisk everything, fry in a pan.",
		Image:       "recipes/images/pancakes.png",
		CookingTime: 20,
		Tags:        []uuid.UUID{k.breakfast.ID},
		Ingredients: []types.IngredientAmount{
			{ID: k.flour.ID, Amount: 200},
			{ID: k.eggs.ID, Amount: 2},
		},
	}
}
