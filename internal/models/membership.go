package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a recipe as favorited by a user. (user_id, recipe_id) is unique.
type Favorite struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_pair;index:idx_favorites_recipe" json:"recipe_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	DateAdded time.Time `gorm:"autoCreateTime;index:idx_favorites_date_added" json:"date_added"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	assignID(&f.ID)
	return nil
}

// ShoppingCart puts a recipe in a user's cart. (user_id, recipe_id) is unique.
type ShoppingCart struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_shopping_carts_pair" json:"user_id"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_shopping_carts_pair;index:idx_shopping_carts_recipe" json:"recipe_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Recipe    *Recipe   `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE" json:"-"`
	DateAdded time.Time `gorm:"autoCreateTime;index:idx_shopping_carts_date_added" json:"date_added"`
}

func (s *ShoppingCart) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// Subscription: UserID follows AuthorID. The pair is unique and never equal.
type Subscription struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscriptions_pair;check:chk_subscriptions_not_self,user_id <> author_id" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscriptions_pair;index:idx_subscriptions_author" json:"author_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	DateAdded time.Time `gorm:"autoCreateTime;index:idx_subscriptions_date_added" json:"date_added"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}

// All lists every model in dependency order for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeTag{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCart{},
		&Subscription{},
	}
}
