package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// ShoppingListService turns a shopping cart into a list of ingredients to buy.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// Aggregate sums ingredient amounts over every recipe in the user's cart,
// one row per ingredient, sorted by name. An empty cart is an
// EmptyStateError rather than an empty list.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]types.ShoppingListItem, error) {
	db := s.db.WithContext(ctx)

	var inCart int64
	if err := db.Model(&models.ShoppingCart{}).Where("user_id = ?", userID).Count(&inCart).Error; err != nil {
		return nil, err
	}
	if inCart == 0 {
		return nil, &EmptyStateError{Message: "shopping cart is empty"}
	}

	items := []types.ShoppingListItem{}
	err := db.Table("recipe_ingredients").
		Select(`ingredients.id AS ingredient_id,
			ingredients.name AS name,
			ingredients.measurement_unit AS measurement_unit,
			SUM(recipe_ingredients.amount) AS total_amount`).
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").Order("ingredients.id ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}

	metrics.ShoppingListLines.Observe(float64(len(items)))
	return items, nil
}

// Render formats items one per line as "{name} - {total} {unit}.".
func Render(items []types.ShoppingListItem) string {
	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s - %d %s.", item.Name, item.TotalAmount, item.MeasurementUnit)
	}
	return b.String()
}
