package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
)

// RequireAdmin lets through only administrators. The role is read from the
// database rather than the token so a demotion takes effect immediately.
// It must run after AuthMiddleware.
func RequireAdmin(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUserRole(c, db)
		if !ok {
			return
		}
		if !user.IsAdmin() {
			abortWithError(c, http.StatusForbidden, "forbidden", "administrator access required")
			return
		}
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

// ResolveRole replaces the role claimed by the token with the stored one,
// so CurrentIdentity reflects promotions and demotions. It must run after
// AuthMiddleware.
func ResolveRole(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := loadUserRole(c, db)
		if !ok {
			return
		}
		c.Set(ContextRole, user.Role)
		c.Next()
	}
}

func loadUserRole(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	userID, ok := CurrentUserID(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "unauthorized", "authentication credentials were not provided")
		return nil, false
	}

	var user models.User
	if err := db.WithContext(c.Request.Context()).Select("id", "role").First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "user no longer exists")
			return nil, false
		}
		logging.Ctx(c.Request.Context()).Error().Err(err).Msg("failed to load user role")
		abortWithError(c, http.StatusInternalServerError, "internal", "internal server error")
		return nil, false
	}
	return &user, true
}
