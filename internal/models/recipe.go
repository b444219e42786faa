package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinCookingTime = 1
	MaxCookingTime = 300
	MinAmount      = 1
	MaxAmount      = 5000
)

// Recipe keeps its row when the author is deleted; AuthorID becomes NULL.
type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	AuthorID    *uuid.UUID         `gorm:"type:varchar(36);index:idx_recipes_author" json:"author_id"`
	Author      *User              `gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL" json:"author,omitempty"`
	Name        string             `gorm:"size:128;not null" json:"name"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	Image       string             `gorm:"size:255;not null" json:"image"`
	CookingTime int                `gorm:"not null;check:chk_recipes_cooking_time,cooking_time >= 1 AND cooking_time <= 300" json:"cooking_time"`
	PubDate     time.Time          `gorm:"autoCreateTime;index:idx_recipes_pub_date" json:"pub_date"`
	RecipeTags  []RecipeTag        `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"ingredients,omitempty"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	assignID(&r.ID)
	return nil
}

// Tags flattens the preloaded RecipeTags.
func (r *Recipe) Tags() []Tag {
	tags := make([]Tag, 0, len(r.RecipeTags))
	for _, rt := range r.RecipeTags {
		if rt.Tag != nil {
			tags = append(tags, *rt.Tag)
		}
	}
	return tags
}

type RecipeTag struct {
	RecipeID uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"recipe_id"`
	TagID    uuid.UUID `gorm:"type:varchar(36);primaryKey;index:idx_recipe_tags_tag" json:"tag_id"`
	Tag      *Tag      `gorm:"foreignKey:TagID;constraint:OnDelete:CASCADE" json:"tag,omitempty"`
}

// RecipeIngredient is one line of a recipe: an ingredient with an amount.
type RecipeIngredient struct {
	ID           uuid.UUID   `gorm:"type:varchar(36);primarykey" json:"id"`
	RecipeID     uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredients_pair" json:"recipe_id"`
	IngredientID uuid.UUID   `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredients_pair;index:idx_recipe_ingredients_ingredient" json:"ingredient_id"`
	Ingredient   *Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE" json:"ingredient,omitempty"`
	Amount       int         `gorm:"not null;check:chk_recipe_ingredients_amount,amount >= 1 AND amount <= 5000" json:"amount"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	assignID(&ri.ID)
	return nil
}
