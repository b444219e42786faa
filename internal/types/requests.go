package types

import (
	"github.com/google/uuid"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// LoginRequest represents the request body for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

type CreateTagRequest struct {
	Name  string `json:"name" binding:"required,max=128"`
	Color string `json:"color" binding:"required,tagcolor"`
	Slug  string `json:"slug" binding:"required,max=128,slug"`
}

type CreateIngredientRequest struct {
	Name            string `json:"name" binding:"required,max=128"`
	MeasurementUnit string `json:"measurement_unit" binding:"required,max=32"`
}

// IngredientAmount references an existing ingredient by id with an amount.
type IngredientAmount struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount"`
}

// CreateRecipeRequest represents the request body for creating a recipe.
// Range and duplicate checks happen in the service so every rule reports
// its own field.
type CreateRecipeRequest struct {
	Name        string             `json:"name" binding:"required,max=128"`
	Text        string             `json:"text" binding:"required"`
	Image       string             `json:"image" binding:"required,max=255"`
	CookingTime int                `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"dive"`
}

// UpdateRecipeRequest represents a partial update. Nil fields are left
// untouched; a non-nil Tags or Ingredients replaces the whole set.
type UpdateRecipeRequest struct {
	Name        *string            `json:"name" binding:"omitempty,max=128"`
	Text        *string            `json:"text"`
	Image       *string            `json:"image" binding:"omitempty,max=255"`
	CookingTime *int               `json:"cooking_time"`
	Tags        []uuid.UUID        `json:"tags"`
	Ingredients []IngredientAmount `json:"ingredients" binding:"omitempty,dive"`
}

// RecipeFilter narrows a recipe listing. Tags match by slug with OR semantics.
type RecipeFilter struct {
	Tags             []string
	AuthorID         *uuid.UUID
	IsFavorited      bool
	IsInShoppingCart bool
}

// PageRequest is a 1-based page with a page size.
type PageRequest struct {
	Page  int
	Limit int
}

// Offset of the first row on the page.
func (p PageRequest) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}
