package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CatalogService reads and maintains the tag and ingredient dictionaries.
type CatalogService struct {
	db *gorm.DB
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{db: db}
}

// ListIngredients returns every ingredient whose name contains name,
// case-insensitively. Prefix matches come first, then by name. An empty
// name lists the whole dictionary.
func (s *CatalogService) ListIngredients(ctx context.Context, name string) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	query := s.db.WithContext(ctx).Model(&models.Ingredient{})

	if name = strings.TrimSpace(name); name != "" {
		needle := escapeLike(strings.ToLower(name))
		query = query.
			Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+needle+"%").
			Clauses(clause.OrderBy{Expression: clause.Expr{
				SQL:  `CASE WHEN LOWER(name) LIKE ? ESCAPE '\' THEN 0 ELSE 1 END, name ASC`,
				Vars: []interface{}{needle + "%"},
			}})
	} else {
		query = query.Order("name ASC")
	}

	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (s *CatalogService) GetIngredient(ctx context.Context, id uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "ingredient", id.String())
	}
	return &ingredient, nil
}

func (s *CatalogService) CreateIngredient(ctx context.Context, req *types.CreateIngredientRequest) (*models.Ingredient, error) {
	ingredient := models.Ingredient{
		Name:            strings.TrimSpace(req.Name),
		MeasurementUnit: strings.TrimSpace(req.MeasurementUnit),
	}
	if ingredient.Name == "" {
		return nil, invalid("name", "must not be blank")
	}
	if ingredient.MeasurementUnit == "" {
		return nil, invalid("measurement_unit", "must not be blank")
	}
	if err := s.db.WithContext(ctx).Create(&ingredient).Error; err != nil {
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("ingredient_id", ingredient.ID.String()).Str("name", ingredient.Name).Msg("ingredient created")
	return &ingredient, nil
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *CatalogService) GetTag(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := s.db.WithContext(ctx).First(&tag, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "tag", id.String())
	}
	return &tag, nil
}

// CreateTag adds a tag. Name, color and slug are each unique.
func (s *CatalogService) CreateTag(ctx context.Context, req *types.CreateTagRequest) (*models.Tag, error) {
	tag := models.Tag{
		Name:  strings.TrimSpace(req.Name),
		Color: strings.ToUpper(req.Color),
		Slug:  req.Slug,
	}
	if !isTagColor(tag.Color) {
		return nil, invalid("color", "must be one of %s", strings.Join(models.TagColors, ", "))
	}
	if err := s.db.WithContext(ctx).Create(&tag).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Resource: "tag", Message: "a tag with this name, color or slug already exists"}
		}
		return nil, err
	}
	logging.Ctx(ctx).Info().Str("tag_id", tag.ID.String()).Str("slug", tag.Slug).Msg("tag created")
	return &tag, nil
}

func isTagColor(color string) bool {
	for _, c := range models.TagColors {
		if strings.EqualFold(c, color) {
			return true
		}
	}
	return false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
