package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
)

// MembershipService manages one user-to-recipe set: favorites or the
// shopping cart. Each (user, recipe) pair appears at most once.
type MembershipService struct {
	db       *gorm.DB
	relation string
	label    string
	newRow   func(userID, recipeID uuid.UUID) interface{}
}

func NewFavoriteService(db *gorm.DB) *MembershipService {
	return &MembershipService{
		db:       db,
		relation: "favorites",
		label:    "favorites",
		newRow: func(userID, recipeID uuid.UUID) interface{} {
			return &models.Favorite{UserID: userID, RecipeID: recipeID}
		},
	}
}

func NewShoppingCartService(db *gorm.DB) *MembershipService {
	return &MembershipService{
		db:       db,
		relation: "shopping_cart",
		label:    "shopping cart",
		newRow: func(userID, recipeID uuid.UUID) interface{} {
			return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
		},
	}
}

// Add puts recipeID into the user's set and returns the recipe.
func (s *MembershipService) Add(ctx context.Context, userID, recipeID uuid.UUID) (recipe *models.Recipe, err error) {
	defer func() {
		metrics.MembershipChanges.WithLabelValues(s.relation, "add", mutationOutcome(err)).Inc()
	}()

	db := s.db.WithContext(ctx)

	var r models.Recipe
	if err := db.First(&r, "id = ?", recipeID).Error; err != nil {
		return nil, notFoundOr(err, "recipe", recipeID.String())
	}

	exists, err := s.Exists(ctx, userID, recipeID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, s.conflict()
	}

	// A concurrent add can still slip past the check above; the unique
	// index decides.
	if err := db.Create(s.newRow(userID, recipeID)).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, s.conflict()
		}
		return nil, err
	}

	logging.Ctx(ctx).Debug().
		Str("relation", s.relation).
		Str("user_id", userID.String()).
		Str("recipe_id", recipeID.String()).
		Msg("membership added")
	return &r, nil
}

// Remove takes recipeID out of the user's set. Removing a pair that is not
// present is a NotFoundError.
func (s *MembershipService) Remove(ctx context.Context, userID, recipeID uuid.UUID) (err error) {
	defer func() {
		metrics.MembershipChanges.WithLabelValues(s.relation, "remove", mutationOutcome(err)).Inc()
	}()

	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.Recipe{}).Where("id = ?", recipeID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Resource: "recipe", ID: recipeID.String()}
	}

	res := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(s.newRow(uuid.Nil, uuid.Nil))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: fmt.Sprintf("recipe in %s", s.label)}
	}

	logging.Ctx(ctx).Debug().
		Str("relation", s.relation).
		Str("user_id", userID.String()).
		Str("recipe_id", recipeID.String()).
		Msg("membership removed")
	return nil
}

func (s *MembershipService) Exists(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(s.newRow(uuid.Nil, uuid.Nil)).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&n).Error
	return n > 0, err
}

// RecipeIDs reports which of recipeIDs are in the user's set.
func (s *MembershipService) RecipeIDs(ctx context.Context, userID uuid.UUID, recipeIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return found, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).
		Model(s.newRow(uuid.Nil, uuid.Nil)).
		Where("user_id = ? AND recipe_id IN ?", userID, recipeIDs).
		Pluck("recipe_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

func (s *MembershipService) conflict() error {
	return &ConflictError{Resource: s.relation, Message: fmt.Sprintf("recipe is already in %s", s.label)}
}
