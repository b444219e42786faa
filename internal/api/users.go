package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserHandler struct {
	users         service.IUserService
	subscriptions service.ISubscriptionService
	presenter     *service.Presenter
	paging        Paging
	required      gin.HandlerFunc
	optional      gin.HandlerFunc
}

func NewUserHandler(deps Deps, required, optional gin.HandlerFunc) *UserHandler {
	return &UserHandler{
		users:         deps.Users,
		subscriptions: deps.Subscriptions,
		presenter:     deps.Presenter,
		paging:        deps.Paging,
		required:      required,
		optional:      optional,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", h.optional, h.ListUsers)
		users.GET("/me", h.required, h.Me)
		users.GET("/subscriptions", h.required, h.ListSubscriptions)
		users.GET("/:id", h.optional, h.GetUser)
		users.POST("/:id/subscribe", h.required, h.Subscribe)
		users.DELETE("/:id/subscribe", h.required, h.Unsubscribe)
	}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondUser(c, http.StatusCreated, nil, user)
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	page, err := h.paging.parse(c)
	if err != nil {
		fail(c, err)
		return
	}

	users, total, err := h.users.List(c.Request.Context(), page)
	if err != nil {
		fail(c, err)
		return
	}
	views, err := h.presenter.Users(c.Request.Context(), middleware.Viewer(c), users)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, views, total, page))
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.Viewer(c)
	user, err := h.users.GetByID(c.Request.Context(), *viewer)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondUser(c, http.StatusOK, viewer, user)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := pathID(c, "id", "user")
	if err != nil {
		fail(c, err)
		return
	}
	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	h.respondUser(c, http.StatusOK, middleware.Viewer(c), user)
}

func (h *UserHandler) respondUser(c *gin.Context, status int, viewer *uuid.UUID, user *models.User) {
	view, err := h.presenter.User(c.Request.Context(), viewer, user)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(status, view)
}

// ListSubscriptions pages through the authors the caller follows, each with
// a preview of recipes_limit recipes.
func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	recipesLimit, err := parseRecipesLimit(c)
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
	authors, total, err := h.subscriptions.List(c.Request.Context(), *viewer, page)
	if err != nil {
		fail(c, err)
		return
	}
	views, err := h.presenter.Subscriptions(c.Request.Context(), *viewer, authors, recipesLimit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, views, total, page))
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, err := pathID(c, "id", "user")
	if err != nil {
		fail(c, err)
		return
	}
	recipesLimit, err := parseRecipesLimit(c)
	if err != nil {
		fail(c, err)
		return
	}

	viewer := middleware.Viewer(c)
	author, err := h.subscriptions.Subscribe(c.Request.Context(), *viewer, authorID)
	if err != nil {
		fail(c, err)
		return
	}
	views, err := h.presenter.Subscriptions(c.Request.Context(), *viewer, []models.User{*author}, recipesLimit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, views[0])
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, err := pathID(c, "id", "user")
	if err != nil {
		fail(c, err)
		return
	}
	if err := h.subscriptions.Unsubscribe(c.Request.Context(), *middleware.Viewer(c), authorID); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseRecipesLimit reads recipes_limit. Absent means every recipe; 0 means
// none.
func parseRecipesLimit(c *gin.Context) (int, error) {
	raw, ok := c.GetQuery("recipes_limit")
	if !ok || raw == "" {
		return -1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, &service.ValidationError{Field: "recipes_limit", Message: "must be a non-negative integer"}
	}
	return n, nil
}
