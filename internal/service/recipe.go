package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeService struct {
	db *gorm.DB
}

func NewRecipeService(db *gorm.DB) *RecipeService {
	return &RecipeService{db: db}
}

// ValidateRecipeInput checks the parts of a recipe that need no database.
// The first violated rule is returned as a *ValidationError.
func ValidateRecipeInput(name string, cookingTime int, tagIDs []uuid.UUID, lines []types.IngredientAmount) error {
	if strings.TrimSpace(name) == "" {
		return invalid("name", "must not be blank")
	}
	if err := validateCookingTime(cookingTime); err != nil {
		return err
	}
	if err := validateTagIDs(tagIDs); err != nil {
		return err
	}
	return validateIngredientLines(lines)
}

func validateCookingTime(minutes int) error {
	if minutes < models.MinCookingTime || minutes > models.MaxCookingTime {
		return invalid("cooking_time", "must be between %d and %d minutes", models.MinCookingTime, models.MaxCookingTime)
	}
	return nil
}

func validateTagIDs(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return invalid("tags", "at least one tag is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return invalid("tags", "tag %s is listed more than once", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func validateIngredientLines(lines []types.IngredientAmount) error {
	if len(lines) == 0 {
		return invalid("ingredients", "at least one ingredient is required")
	}
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, line := range lines {
		if _, dup := seen[line.ID]; dup {
			return invalid("ingredients", "ingredient %s is listed more than once", line.ID)
		}
		seen[line.ID] = struct{}{}
		if line.Amount < models.MinAmount || line.Amount > models.MaxAmount {
			return invalid("amount", "must be between %d and %d", models.MinAmount, models.MaxAmount)
		}
	}
	return nil
}

// checkReferences rejects tag and ingredient ids that do not exist.
func checkReferences(tx *gorm.DB, tagIDs []uuid.UUID, lines []types.IngredientAmount) error {
	if len(tagIDs) > 0 {
		var n int64
		if err := tx.Model(&models.Tag{}).Where("id IN ?", tagIDs).Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(tagIDs) {
			return invalid("tags", "unknown tag id")
		}
	}
	if len(lines) > 0 {
		ids := make([]uuid.UUID, len(lines))
		for i, l := range lines {
			ids[i] = l.ID
		}
		var n int64
		if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(ids) {
			return invalid("ingredients", "unknown ingredient id")
		}
	}
	return nil
}

// replaceAssociations swaps out the tag set and/or ingredient lines of a
// recipe. A nil slice leaves that association alone. Callers run it inside
// a transaction.
func replaceAssociations(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID, lines []types.IngredientAmount) error {
	if tagIDs != nil {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		rows := make([]models.RecipeTag, len(tagIDs))
		for i, id := range tagIDs {
			rows[i] = models.RecipeTag{RecipeID: recipeID, TagID: id}
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			return err
		}
	}
	if lines != nil {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		rows := make([]models.RecipeIngredient, len(lines))
		for i, l := range lines {
			rows[i] = models.RecipeIngredient{RecipeID: recipeID, IngredientID: l.ID, Amount: l.Amount}
		}
		if err := tx.Omit(clause.Associations).Create(&rows).Error; err != nil {
			if isUniqueViolation(err) {
				return invalid("ingredients", "an ingredient may appear only once per recipe")
			}
			return err
		}
	}
	return nil
}

// CreateRecipe stores a new recipe authored by authorID. Nothing is
// persisted unless every line and tag is written.
func (s *RecipeService) CreateRecipe(ctx context.Context, authorID uuid.UUID, req *types.CreateRecipeRequest) (*models.Recipe, error) {
	if err := ValidateRecipeInput(req.Name, req.CookingTime, req.Tags, req.Ingredients); err != nil {
		metrics.RecipeMutations.WithLabelValues("create", "invalid").Inc()
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    &authorID,
		Name:        strings.TrimSpace(req.Name),
		Text:        req.Text,
		Image:       req.Image,
		CookingTime: req.CookingTime,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, req.Tags, req.Ingredients); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&recipe).Error; err != nil {
			return err
		}
		return replaceAssociations(tx, recipe.ID, req.Tags, req.Ingredients)
	})
	metrics.RecipeMutations.WithLabelValues("create", mutationOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().
		Str("recipe_id", recipe.ID.String()).
		Str("author_id", authorID.String()).
		Int("tags", len(req.Tags)).
		Int("ingredients", len(req.Ingredients)).
		Msg("recipe created")

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe applies a partial update. Tags and ingredient lines, when
// given, replace the existing sets in the same transaction as the scalar
// fields.
func (s *RecipeService) UpdateRecipe(ctx context.Context, identity *types.Identity, id uuid.UUID, req *types.UpdateRecipeRequest) (*models.Recipe, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "recipe", id.String())
		}
		if !canModify(identity, recipe.AuthorID) {
			return ErrForbidden
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				return invalid("name", "must not be blank")
			}
			updates["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Text != nil {
			updates["text"] = *req.Text
		}
		if req.Image != nil {
			updates["image"] = *req.Image
		}
		if req.CookingTime != nil {
			if err := validateCookingTime(*req.CookingTime); err != nil {
				return err
			}
			updates["cooking_time"] = *req.CookingTime
		}
		if req.Tags != nil {
			if err := validateTagIDs(req.Tags); err != nil {
				return err
			}
		}
		if req.Ingredients != nil {
			if err := validateIngredientLines(req.Ingredients); err != nil {
				return err
			}
		}
		if err := checkReferences(tx, req.Tags, req.Ingredients); err != nil {
			return err
		}

		if len(updates) > 0 {
			if err := tx.Model(&recipe).Omit(clause.Associations).Updates(updates).Error; err != nil {
				return err
			}
		}
		return replaceAssociations(tx, recipe.ID, req.Tags, req.Ingredients)
	})
	metrics.RecipeMutations.WithLabelValues("update", mutationOutcome(err)).Inc()
	if err != nil {
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe updated")
	return s.GetRecipe(ctx, id)
}

// DeleteRecipe removes a recipe with its lines, tags and memberships.
func (s *RecipeService) DeleteRecipe(ctx context.Context, identity *types.Identity, id uuid.UUID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			return notFoundOr(err, "recipe", id.String())
		}
		if !canModify(identity, recipe.AuthorID) {
			return ErrForbidden
		}
		// The schema cascades these; deleting explicitly keeps sqlite
		// connections without foreign_keys=on consistent too.
		for _, child := range []interface{}{
			&models.RecipeTag{}, &models.RecipeIngredient{}, &models.Favorite{}, &models.ShoppingCart{},
		} {
			if err := tx.Where("recipe_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&recipe).Error
	})
	metrics.RecipeMutations.WithLabelValues("delete", mutationOutcome(err)).Inc()
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Str("recipe_id", id.String()).Msg("recipe deleted")
	return nil
}

// GetRecipe loads a recipe with author, tags and ingredient lines.
func (s *RecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.withDetails(s.db.WithContext(ctx)).First(&recipe, "recipes.id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "recipe", id.String())
	}
	sortDetails(&recipe)
	return &recipe, nil
}

// ListRecipes returns one page of recipes matching filter, newest first,
// and the total number of matches. viewer may be nil; the favorite and
// cart filters are ignored for anonymous callers.
func (s *RecipeService) ListRecipes(ctx context.Context, viewer *uuid.UUID, filter types.RecipeFilter, page types.PageRequest) ([]models.Recipe, int64, error) {
	db := s.db.WithContext(ctx)
	query := db.Model(&models.Recipe{})

	if len(filter.Tags) > 0 {
		tagged := db.Model(&models.RecipeTag{}).
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	if filter.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *filter.AuthorID)
	}
	if viewer != nil {
		if filter.IsFavorited {
			query = query.Where("recipes.id IN (?)",
				db.Model(&models.Favorite{}).Select("recipe_id").Where("user_id = ?", *viewer))
		}
		if filter.IsInShoppingCart {
			query = query.Where("recipes.id IN (?)",
				db.Model(&models.ShoppingCart{}).Select("recipe_id").Where("user_id = ?", *viewer))
		}
	}

	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var recipes []models.Recipe
	paged := s.withDetails(query).Order("recipes.pub_date DESC").Order("recipes.id DESC")
	if page.Limit > 0 {
		paged = paged.Limit(page.Limit).Offset(page.Offset())
	}
	if err := paged.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}
	for i := range recipes {
		sortDetails(&recipes[i])
	}
	return recipes, total, nil
}

func (s *RecipeService) withDetails(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Author").Preload("RecipeTags.Tag").Preload("Ingredients.Ingredient")
}

func sortDetails(r *models.Recipe) {
	sort.SliceStable(r.RecipeTags, func(i, j int) bool {
		return tagName(r.RecipeTags[i]) < tagName(r.RecipeTags[j])
	})
	sort.SliceStable(r.Ingredients, func(i, j int) bool {
		return ingredientName(r.Ingredients[i]) < ingredientName(r.Ingredients[j])
	})
}

func tagName(rt models.RecipeTag) string {
	if rt.Tag == nil {
		return ""
	}
	return rt.Tag.Name
}

func ingredientName(ri models.RecipeIngredient) string {
	if ri.Ingredient == nil {
		return ""
	}
	return ri.Ingredient.Name
}

// mutationOutcome separates caller mistakes from failures in metrics.
func mutationOutcome(err error) string {
	var verr *ValidationError
	var nf *NotFoundError
	var ce *ConflictError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.As(err, &nf):
		return "not_found"
	case errors.As(err, &ce):
		return "conflict"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	default:
		return "error"
	}
}
