package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	t      *testing.T
	db     *gorm.DB
	auth   *service.AuthService
	router *gin.Engine
	deps   Deps
}

// newTestServer wires the real services over an in-memory database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := testhelpers.SetupSQLiteDB(t)
	auth := service.NewAuthService(db, "test-secret", time.Hour, nil)

	favorites := service.NewFavoriteService(db)
	cart := service.NewShoppingCartService(db)
	subscriptions := service.NewSubscriptionService(db)

	deps := Deps{
		DB:                   db,
		Auth:                 auth,
		Users:                service.NewUserService(db),
		Catalog:              service.NewCatalogService(db),
		Recipes:              service.NewRecipeService(db),
		Favorites:            favorites,
		ShoppingCart:         cart,
		Subscriptions:        subscriptions,
		ShoppingList:         service.NewShoppingListService(db),
		Presenter:            service.NewPresenter(favorites, cart, subscriptions),
		Paging:               Paging{DefaultLimit: 6, MaxLimit: 100},
		ShoppingListFilename: "shopping_list.txt",
	}
	return &testServer{t: t, db: db, auth: auth, router: newEngine(deps), deps: deps}
}

// with builds a separate engine over the same services after override
// swaps some of them, typically for mocks.
func (s *testServer) with(override func(*Deps)) *gin.Engine {
	deps := s.deps
	override(&deps)
	return newEngine(deps)
}

func newEngine(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	SetupAPI(router.Group("/api"), deps)
	return router
}

func (s *testServer) token(user *models.User) string {
	s.t.Helper()
	token, err := s.auth.TokenFor(user)
	require.NoError(s.t, err)
	return token
}

// do sends body as JSON. An empty token sends no Authorization header.
func (s *testServer) do(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	s.t.Helper()
	return serve(s.t, s.router, method, path, body, token)
}

func serve(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(data)
		}
		reader = bytes.NewBufferString(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	return decode[types.ErrorResponse](t, w)
}
