package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Role     string    `json:"role"`
}

// Identity is the resolved caller of a request. A nil *Identity is anonymous.
type Identity struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// UserIDPtr returns nil for an anonymous identity.
func (i *Identity) UserIDPtr() *uuid.UUID {
	if i == nil {
		return nil
	}
	id := i.UserID
	return &id
}
