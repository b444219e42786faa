package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestAggregateShoppingList(t *testing.T) {
	e := newEnv(t)
	k := newKitchen(t, e.db)
	author := testhelpers.CreateUser(t, e.db, "chef")
	shopper := testhelpers.CreateUser(t, e.db, "shopper")
	ctx := context.Background()

	bread := testhelpers.CreateRecipe(t, e.db, author, "Bread", []*models.Tag{k.dinner},
		testhelpers.Line{Ingredient: k.flour, Amount: 200},
		testhelpers.Line{Ingredient: k.oil, Amount: 30})
	cake := testhelpers.CreateRecipe(t, e.db, author, "Cake", []*models.Tag{k.dinner},
		testhelpers.Line{Ingredient: k.flour, Amount: 300},
		testhelpers.Line{Ingredient: k.eggs, Amount: 3})
	// Not in the cart, so it must not count.
	testhelpers.CreateRecipe(t, e.db, author, "Omelette", []*models.Tag{k.breakfast},
		testhelpers.Line{Ingredient: k.eggs, Amount: 4})

	for _, r := range []*models.Recipe{bread, cake} {
		_, err := e.cart.Add(ctx, shopper.ID, r.ID)
		require.NoError(t, err)
	}

	items, err := e.shopping.Aggregate(ctx, shopper.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, types.ShoppingListItem{IngredientID: k.eggs.ID, Name: "Eggs", MeasurementUnit: "pcs", TotalAmount: 3}, items[0])
	assert.Equal(t, types.ShoppingListItem{IngredientID: k.flour.ID, Name: "Flour", MeasurementUnit: "g", TotalAmount: 500}, items[1])
	assert.Equal(t, types.ShoppingListItem{IngredientID: k.oil.ID, Name: "Oil", MeasurementUnit: "ml", TotalAmount: 30}, items[2])

	assert.Equal(t, "Eggs - 3 pcs.\nFlour - 500 g.\nOil - 30 ml.", service.Render(items))
}

func TestAggregateEmptyCart(t *testing.T) {
	e := newEnv(t)
	shopper := testhelpers.CreateUser(t, e.db, "shopper")

	_, err := e.shopping.Aggregate(context.Background(), shopper.ID)
	var empty *service.EmptyStateError
	require.ErrorAs(t, err, &empty)
	assert.Equal(t, "shopping cart is empty", empty.Error())
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", service.Render(nil))
}
