package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
)

func TestImportIngredients(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	catalog := service.NewCatalogService(db)
	ctx := context.Background()
	testhelpers.CreateIngredient(t, db, "Salt", "g")

	data := "абрикосовое варенье,г\n" +
		"salt, g\n" +
		"Flour,g\n" +
		"flour,G\n" +
		",pcs\n" +
		"\"Eggs, large\",pcs\n"

	added, err := catalog.ImportIngredients(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	var names []string
	require.NoError(t, db.Model(&models.Ingredient{}).Order("name").Pluck("name", &names).Error)
	assert.Equal(t, []string{"Eggs, large", "Flour", "Salt", "абрикосовое варенье"}, names)

	added, err = catalog.ImportIngredients(ctx, strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, added)
}

func TestImportIngredientsRejectsShortRows(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	catalog := service.NewCatalogService(db)

	_, err := catalog.ImportIngredients(context.Background(), strings.NewReader("Flour,g\nSugar\n"))
	var verr *service.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "line 2")

	var n int64
	require.NoError(t, db.Model(&models.Ingredient{}).Count(&n).Error)
	assert.Zero(t, n)
}
