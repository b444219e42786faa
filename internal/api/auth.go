package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/middleware"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
	required    gin.HandlerFunc
}

func NewAuthHandler(authService service.IAuthService, required gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		required:    required,
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	token := router.Group("/auth/token")
	{
		token.POST("/login", h.Login)
		token.POST("/logout", h.required, h.Logout)
	}
}

// Login exchanges email and password for a token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().Str("user_id", user.ID.String()).Msg("user logged in")
	c.JSON(http.StatusOK, types.TokenResponse{AuthToken: token})
}

// Logout revokes the caller's token.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
