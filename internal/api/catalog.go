package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// CatalogHandler serves tags and ingredients. Both lists are unpaginated.
type CatalogHandler struct {
	catalog  service.ICatalogService
	required gin.HandlerFunc
	admin    gin.HandlerFunc
}

func NewCatalogHandler(catalog service.ICatalogService, required, admin gin.HandlerFunc) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, required: required, admin: admin}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
		tags.POST("", h.required, h.admin, h.CreateTag)
	}

	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
		ingredients.POST("", h.required, h.admin, h.CreateIngredient)
	}
}

func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.catalog.ListTags(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]types.TagResponse, len(tags))
	for i := range tags {
		out[i] = service.TagView(&tags[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetTag(c *gin.Context) {
	id, err := pathID(c, "id", "tag")
	if err != nil {
		fail(c, err)
		return
	}
	tag, err := h.catalog.GetTag(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.TagView(tag))
}

func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req types.CreateTagRequest
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.catalog.CreateTag(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.TagView(tag))
}

// ListIngredients filters by ?name=, prefix matches first.
func (h *CatalogHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.catalog.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]types.IngredientResponse, len(ingredients))
	for i := range ingredients {
		out[i] = service.IngredientView(&ingredients[i])
	}
	c.JSON(http.StatusOK, out)
}

func (h *CatalogHandler) GetIngredient(c *gin.Context) {
	id, err := pathID(c, "id", "ingredient")
	if err != nil {
		fail(c, err)
		return
	}
	ingredient, err := h.catalog.GetIngredient(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, service.IngredientView(ingredient))
}

func (h *CatalogHandler) CreateIngredient(c *gin.Context) {
	var req types.CreateIngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ingredient, err := h.catalog.CreateIngredient(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, service.IngredientView(ingredient))
}
