package api

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func TestRegisterUser(t *testing.T) {
	s := newTestServer(t)

	req := types.RegisterRequest{
		Email:     "ivan@example.com",
		Username:  "ivan",
		FirstName: "Ivan",
		LastName:  "Petrov",
		Password:  "long-enough",
	}
	w := s.do(http.MethodPost, "/api/users", req, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[types.UserResponse](t, w)
	assert.Equal(t, "ivan", user.Username)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodPost, "/api/users", req, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decodeError(t, w).Code)

	tests := []struct {
		name   string
		mutate func(*types.RegisterRequest)
		field  string
	}{
		{"reserved username", func(r *types.RegisterRequest) { r.Username = "me" }, "username"},
		{"bad username", func(r *types.RegisterRequest) { r.Username = "has space" }, "username"},
		{"bad email", func(r *types.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short password", func(r *types.RegisterRequest) { r.Password = "short" }, "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := req
			r.Email, r.Username = "new@example.com", "newbie"
			tt.mutate(&r)
			w := s.do(http.MethodPost, "/api/users", r, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			body := decodeError(t, w)
			assert.Equal(t, "validation", body.Code)
			assert.Equal(t, tt.field, body.Field)
		})
	}
}

func TestListUsersPaginates(t *testing.T) {
	s := newTestServer(t)
	for _, name := range []string{"carol", "alice", "bob"} {
		testhelpers.CreateUser(t, s.db, name)
	}

	w := s.do(http.MethodGet, "/api/users?limit=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.UserResponse]](t, w)
	assert.EqualValues(t, 3, page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
	require.NotNil(t, page.Next)
	assert.Equal(t, "http://example.com/api/users?limit=2&page=2", *page.Next)
	assert.Nil(t, page.Previous)

	w = s.do(http.MethodGet, "/api/users?limit=2&page=2", nil, "")
	page = decode[types.Page[types.UserResponse]](t, w)
	require.Len(t, page.Results, 1)
	assert.Nil(t, page.Next)
	require.NotNil(t, page.Previous)
	assert.Equal(t, "http://example.com/api/users?limit=2", *page.Previous)

	w = s.do(http.MethodGet, "/api/users?page=0", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "page", decodeError(t, w).Field)
}

func TestGetUser(t *testing.T) {
	s := newTestServer(t)
	user := testhelpers.CreateUser(t, s.db, "ivan")

	w := s.do(http.MethodGet, "/api/users/"+user.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[types.UserResponse](t, w).IsSubscribed)

	for _, id := range []string{uuid.NewString(), "42"} {
		w = s.do(http.MethodGet, "/api/users/"+id, nil, "")
		assert.Equal(t, http.StatusNotFound, w.Code, id)
	}

	w = s.do(http.MethodGet, "/api/users/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionsEndpoints(t *testing.T) {
	s := newTestServer(t)
	tag := testhelpers.CreateTag(t, s.db, "Dinner", "#FF0000", "dinner")
	reader := testhelpers.CreateUser(t, s.db, "reader")
	author := testhelpers.CreateUser(t, s.db, "author")
	for _, name := range []string{"Soup", "Stew", "Roast"} {
		testhelpers.CreateRecipe(t, s.db, author, name, []*models.Tag{tag})
	}
	token := s.token(reader)
	subscribe := "/api/users/" + author.ID.String() + "/subscribe"

	w := s.do(http.MethodPost, subscribe+"?recipes_limit=2", nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sub := decode[types.SubscriptionResponse](t, w)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 2)
	assert.EqualValues(t, 3, sub.RecipesCount)

	w = s.do(http.MethodPost, subscribe, nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "conflict", decodeError(t, w).Code)

	w = s.do(http.MethodPost, "/api/users/"+reader.ID.String()+"/subscribe", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/users/"+author.ID.String(), nil, token)
	assert.True(t, decode[types.UserResponse](t, w).IsSubscribed)

	w = s.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	page := decode[types.Page[types.SubscriptionResponse]](t, w)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "author", page.Results[0].Username)
	assert.Len(t, page.Results[0].Recipes, 1)

	w = s.do(http.MethodGet, "/api/users/subscriptions", nil, token)
	page = decode[types.Page[types.SubscriptionResponse]](t, w)
	assert.Len(t, page.Results[0].Recipes, 3)

	w = s.do(http.MethodGet, "/api/users/subscriptions?recipes_limit=-1", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "recipes_limit", decodeError(t, w).Field)

	w = s.do(http.MethodDelete, subscribe, nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, subscribe, nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/users/"+uuid.NewString()+"/subscribe", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
