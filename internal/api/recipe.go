package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type RecipeHandler struct {
	recipes      service.IRecipeService
	favorites    service.IMembershipService
	cart         service.IMembershipService
	shoppingList service.IShoppingListService
	presenter    *service.Presenter
	limiter      *middleware.RateLimiter
	paging       Paging
	filename     string
	required     gin.HandlerFunc
	optional     gin.HandlerFunc
	resolveRole  gin.HandlerFunc
}

func NewRecipeHandler(deps Deps, required, optional gin.HandlerFunc) *RecipeHandler {
	return &RecipeHandler{
		recipes:      deps.Recipes,
		favorites:    deps.Favorites,
		cart:         deps.ShoppingCart,
		shoppingList: deps.ShoppingList,
		presenter:    deps.Presenter,
		limiter:      deps.RecipeLimiter,
		paging:       deps.Paging,
		filename:     deps.ShoppingListFilename,
		required:     required,
		optional:     optional,
		resolveRole:  middleware.ResolveRole(deps.DB),
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	create := []gin.HandlerFunc{h.required}
	if h.limiter != nil {
		create = append(create, h.limiter.Middleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.optional, h.ListRecipes)
		recipes.POST("", create...)
		recipes.GET("/download_shopping_cart", h.required, h.DownloadShoppingCart)
		recipes.GET("/:id", h.optional, h.GetRecipe)
		recipes.PATCH("/:id", h.required, h.resolveRole, h.UpdateRecipe)
		recipes.DELETE("/:id", h.required, h.resolveRole, h.DeleteRecipe)
		recipes.POST("/:id/favorite", h.required, h.addTo(h.favorites))
		recipes.DELETE("/:id/favorite", h.required, h.removeFrom(h.favorites))
		recipes.POST("/:id/shopping_cart", h.required, h.addTo(h.cart))
		recipes.DELETE("/:id/shopping_cart", h.required, h.removeFrom(h.cart))
	}
}

// ListRecipes supports ?tags=<slug> (repeatable, any match), ?author=<id>,
// ?is_favorited=1 and ?is_in_shopping_cart=1 plus page and limit.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	filter, err := parseRecipeFilter(c)
	if err != nil {
		fail(c, err)
		return
	}
	page, err := h.paging.parse(c)
	if err != nil {
		fail(c, err)
		return
	}

	viewer := middleware.Viewer(c)
	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), viewer, filter, page)
	if err != nil {
		fail(c, err)
		return
	}
	views, err := h.presenter.Recipes(c.Request.Context(), viewer, recipes)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, views, total, page))
}

func parseRecipeFilter(c *gin.Context) (types.RecipeFilter, error) {
	var filter types.RecipeFilter
	for _, slug := range c.QueryArray("tags") {
		if slug != "" {
			filter.Tags = append(filter.Tags, slug)
		}
	}
	if raw := c.Query("author"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, &service.ValidationError{Field: "author", Message: "must be a user id"}
		}
		filter.AuthorID = &id
	}

	var err error
	if filter.IsFavorited, err = queryBool(c, "is_favorited"); err != nil {
		return filter, err
	}
	if filter.IsInShoppingCart, err = queryBool(c, "is_in_shopping_cart"); err != nil {
		return filter, err
	}
	return filter, nil
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := pathID(c, "id", "recipe")
	if err != nil {
		fail(c, err)
		return
	}
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	view, err := h.presenter.Recipe(c.Request.Context(), middleware.Viewer(c), recipe)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	viewer := middleware.Viewer(c)
	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), *viewer, &req)
	if err != nil {
		fail(c, err)
		return
	}
	view, err := h.presenter.Recipe(c.Request.Context(), viewer, recipe)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, err := pathID(c, "id", "recipe")
	if err != nil {
		fail(c, err)
		return
	}
	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), middleware.CurrentIdentity(c), id, &req)
	if err != nil {
		fail(c, err)
		return
	}
	view, err := h.presenter.Recipe(c.Request.Context(), middleware.Viewer(c), recipe)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, err := pathID(c, "id", "recipe")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.recipes.DeleteRecipe(c.Request.Context(), middleware.CurrentIdentity(c), id); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// addTo answers 201 with the short recipe view.
func (h *RecipeHandler) addTo(set service.IMembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "recipe")
		if err != nil {
			fail(c, err)
			return
		}
		recipe, err := set.Add(c.Request.Context(), *middleware.Viewer(c), id)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, service.ShortRecipe(recipe))
	}
}

func (h *RecipeHandler) removeFrom(set service.IMembershipService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := pathID(c, "id", "recipe")
		if err != nil {
			fail(c, err)
			return
		}
		if err := set.Remove(c.Request.Context(), *middleware.Viewer(c), id); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DownloadShoppingCart sends the aggregated cart as a text attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	items, err := h.shoppingList.Aggregate(c.Request.Context(), *middleware.Viewer(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(service.Render(items)))
}
