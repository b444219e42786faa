package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextRole     = "role"
	ContextClaims   = "claims"
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*types.TokenClaims, error)
}

// AuthMiddleware rejects requests without a valid token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "unauthorized", "authentication credentials were not provided")
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a token is sent and
// lets anonymous requests through. A token that is sent but invalid is
// still rejected.
func OptionalAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}
		if !authenticate(c, validator, token) {
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, validator TokenValidator, token string) bool {
	if token == "" {
		abortWithError(c, http.StatusUnauthorized, "unauthorized", "invalid authorization header format")
		return false
	}
	claims, err := validator.ValidateToken(token)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
		return false
	}

	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextUsername, claims.Username)
	c.Set(ContextRole, claims.Role)
	c.Set(ContextClaims, claims)
	return true
}

// bearerToken reads "Authorization: Bearer <t>" or "Token <t>". ok is false
// when no Authorization header was sent; a malformed header yields ok and an
// empty token.
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return "", true
	}
	switch strings.ToLower(parts[0]) {
	case "bearer", "token":
		return parts[1], true
	}
	return "", true
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// Viewer is the authenticated user's id, or nil for anonymous requests.
func Viewer(c *gin.Context) *uuid.UUID {
	id, ok := CurrentUserID(c)
	if !ok {
		return nil
	}
	return &id
}

// CurrentIdentity returns nil for anonymous requests.
func CurrentIdentity(c *gin.Context) *types.Identity {
	id, ok := CurrentUserID(c)
	if !ok {
		return nil
	}
	return &types.Identity{UserID: id, IsAdmin: c.GetString(ContextRole) == models.RoleAdmin}
}

func CurrentClaims(c *gin.Context) *types.TokenClaims {
	v, ok := c.Get(ContextClaims)
	if !ok {
		return nil
	}
	claims, _ := v.(*types.TokenClaims)
	return claims
}
