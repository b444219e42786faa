package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TagColors is the fixed palette a tag color must come from.
var TagColors = []string{"#0000FF", "#FF0000", "#008000", "#FFFF00", "#8775D2"}

type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name  string    `gorm:"size:128;uniqueIndex:idx_tags_name;not null" json:"name"`
	Color string    `gorm:"size:7;uniqueIndex:idx_tags_color;not null" json:"color"`
	Slug  string    `gorm:"size:128;uniqueIndex:idx_tags_slug;not null" json:"slug"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	assignID(&t.ID)
	return nil
}

type Ingredient struct {
	ID              uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name            string    `gorm:"size:128;index:idx_ingredients_name;not null" json:"name"`
	MeasurementUnit string    `gorm:"size:32;not null" json:"measurement_unit"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	assignID(&i.ID)
	return nil
}
