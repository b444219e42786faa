package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pageza/foodgram/backend/internal/models"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "testpassword123"

var hashedTestPassword = func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return string(hash)
}()

// CreateUser inserts a regular user named username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	return createUser(t, db, username, models.RoleUser)
}

// CreateAdmin inserts an administrator named username.
func CreateAdmin(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	return createUser(t, db, username, models.RoleAdmin)
}

func createUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	user := &models.User{
		Email:        fmt.Sprintf("%s@example.com", username),
		Username:     username,
		FirstName:    "Test",
		LastName:     username,
		PasswordHash: hashedTestPassword,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func CreateTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: name, Color: color, Slug: slug}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("failed to create tag %s: %v", name, err)
	}
	return tag
}

func CreateIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	if err := db.Create(ingredient).Error; err != nil {
		t.Fatalf("failed to create ingredient %s: %v", name, err)
	}
	return ingredient
}

// Line is an ingredient with an amount for CreateRecipe.
type Line struct {
	Ingredient *models.Ingredient
	Amount     int
}

// CreateRecipe inserts a recipe directly, bypassing service validation.
func CreateRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tags []*models.Tag, lines ...Line) *models.Recipe {
	t.Helper()

	recipe := &models.Recipe{
		Name:        name,
		Text:        "Mix and cook.",
		Image:       "recipes/images/" + uuid.NewString() + ".png",
		CookingTime: 30,
	}
	if author != nil {
		recipe.AuthorID = &author.ID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		for _, tag := range tags {
			if err := tx.Create(&models.RecipeTag{RecipeID: recipe.ID, TagID: tag.ID}).Error; err != nil {
				return err
			}
		}
		for _, l := range lines {
			row := &models.RecipeIngredient{RecipeID: recipe.ID, IngredientID: l.Ingredient.ID, Amount: l.Amount}
			if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("failed to create recipe %s: %v", name, err)
	}
	return recipe
}
