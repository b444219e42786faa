package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

var errInvalidToken = errors.New("invalid token")

// TokenStore remembers revoked token ids until they would expire anyway.
type TokenStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthService struct {
	db        *gorm.DB
	jwtSecret string
	tokenTTL  time.Duration
	store     TokenStore
}

// NewAuthService builds the token issuer. store may be nil, in which case
// logout cannot revoke tokens before they expire.
func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, store TokenStore) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		db:        db,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		store:     store,
	}
}

// Login checks the password and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.TokenFor(&user)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// TokenFor issues a token carrying the user's id, username and role.
func (s *AuthService) TokenFor(user *models.User) (string, error) {
	return s.GenerateToken(&types.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
}

// GenerateToken signs claims with HS256, filling in id and lifetime.
func (s *AuthService) GenerateToken(claims *types.TokenClaims) (string, error) {
	now := time.Now()
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
	if claims.Subject == "" {
		claims.Subject = claims.UserID.String()
	}
	claims.IssuedAt = jwt.NewNumericDate(now)
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(s.tokenTTL))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *AuthService) ValidateToken(tokenString string) (*types.TokenClaims, error) {
	claims := &types.TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == uuid.Nil {
		return nil, errInvalidToken
	}

	if s.store != nil && claims.ID != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		revoked, err := s.store.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, errors.New("token has been revoked")
		}
	}

	return claims, nil
}

// Logout revokes the token behind claims for its remaining lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *types.TokenClaims) error {
	if s.store == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}
	return s.store.Revoke(ctx, claims.ID, ttl)
}
