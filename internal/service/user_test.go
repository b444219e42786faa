package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func registerRequest(username string) *types.RegisterRequest {
	return &types.RegisterRequest{
		Email:     username + "@Example.com",
		Username:  username,
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "s3cret-pass",
	}
}

func TestRegister(t *testing.T) {
	e := newEnv(t)

	user, err := e.users.Register(context.Background(), registerRequest("ivan"))
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, user.ID)
	assert.Equal(t, "ivan@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestRegisterDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, registerRequest("ivan"))
	require.NoError(t, err)

	t.Run("same username", func(t *testing.T) {
		req := registerRequest("ivan")
		req.Email = "other@example.com"
		_, err := e.users.Register(ctx, req)
		var conflict *service.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	t.Run("same email in another case", func(t *testing.T) {
		req := registerRequest("petr")
		req.Email = "IVAN@example.com"
		_, err := e.users.Register(ctx, req)
		var conflict *service.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})

	assert.EqualValues(t, 1, countRows(t, e, &models.User{}))
}

func TestGetUser(t *testing.T) {
	e := newEnv(t)
	user := testhelpers.CreateUser(t, e.db, "ivan")
	ctx := context.Background()

	got, err := e.users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivan", got.Username)

	_, err = e.users.GetByID(ctx, uuid.New())
	var nf *service.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestListUsers(t *testing.T) {
	e := newEnv(t)
	for _, name := range []string{"zoe", "adam", "mike"} {
		testhelpers.CreateUser(t, e.db, name)
	}
	ctx := context.Background()

	users, total, err := e.users.List(ctx, types.PageRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, users, 2)
	assert.Equal(t, "adam", users[0].Username)
	assert.Equal(t, "mike", users[1].Username)

	users, _, err = e.users.List(ctx, types.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "zoe", users[0].Username)
}

func TestPresenterFlags(t *testing.T) {
	e := newEnv(t)
	k := newKitchen(t, e.db)
	author := testhelpers.CreateUser(t, e.db, "chef")
	viewer := testhelpers.CreateUser(t, e.db, "viewer")
	ctx := context.Background()

	created, err := e.recipes.CreateRecipe(ctx, author.ID, k.pancakes())
	require.NoError(t, err)
	_, err = e.favorites.Add(ctx, viewer.ID, created.ID)
	require.NoError(t, err)
	_, err = e.subscriptions.Subscribe(ctx, viewer.ID, author.ID)
	require.NoError(t, err)

	view, err := e.presenter.Recipe(ctx, &viewer.ID, created)
	require.NoError(t, err)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	require.NotNil(t, view.Author)
	assert.True(t, view.Author.IsSubscribed)
	require.Len(t, view.Ingredients, 2)
	assert.Equal(t, "Eggs", view.Ingredients[0].Name)
	assert.Equal(t, k.eggs.ID, view.Ingredients[0].ID)

	anon, err := e.presenter.Recipe(ctx, nil, created)
	require.NoError(t, err)
	assert.False(t, anon.IsFavorited)
	assert.False(t, anon.Author.IsSubscribed)

	me, err := e.presenter.User(ctx, &viewer.ID, viewer)
	require.NoError(t, err)
	assert.False(t, me.IsSubscribed)
}
