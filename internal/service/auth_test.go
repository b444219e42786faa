package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/testhelpers"
	"github.com/pageza/foodgram/backend/internal/types"
)

const testSecret = "test-secret"

type memoryTokenStore struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{revoked: map[string]time.Duration{}}
}

func (s *memoryTokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[tokenID] = ttl
	return nil
}

func (s *memoryTokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.revoked[tokenID]
	return ok, nil
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	user := testhelpers.CreateUser(t, e.db, "chef")
	auth := service.NewAuthService(e.db, testSecret, time.Hour, nil)
	ctx := context.Background()

	token, got, err := auth.Login(ctx, "CHEF@example.com", testhelpers.TestPassword)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "chef", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestLoginInvalidCredentials(t *testing.T) {
	e := newEnv(t)
	testhelpers.CreateUser(t, e.db, "chef")
	auth := service.NewAuthService(e.db, testSecret, time.Hour, nil)
	ctx := context.Background()

	_, _, err := auth.Login(ctx, "chef@example.com", "wrong-password")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, _, err = auth.Login(ctx, "nobody@example.com", testhelpers.TestPassword)
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestValidateTokenRejects(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, testSecret, time.Hour, nil)

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ValidateToken("not-a-token")
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := service.NewAuthService(e.db, "other-secret", time.Hour, nil)
		token, err := other.GenerateToken(&types.TokenClaims{UserID: uuid.New()})
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := auth.GenerateToken(&types.TokenClaims{
			UserID:           uuid.New(),
			RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		})
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("no user id", func(t *testing.T) {
		token, err := auth.GenerateToken(&types.TokenClaims{})
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.Error(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		claims := &types.TokenClaims{UserID: uuid.New()}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = auth.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newEnv(t)
	testhelpers.CreateUser(t, e.db, "chef")
	store := newMemoryTokenStore()
	auth := service.NewAuthService(e.db, testSecret, time.Hour, store)
	ctx := context.Background()

	token, _, err := auth.Login(ctx, "chef@example.com", testhelpers.TestPassword)
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(ctx, claims))
	assert.InDelta(t, time.Hour.Seconds(), store.revoked[claims.ID].Seconds(), 60)

	_, err = auth.ValidateToken(token)
	assert.Error(t, err)

	// A fresh login still works.
	again, _, err := auth.Login(ctx, "chef@example.com", testhelpers.TestPassword)
	require.NoError(t, err)
	_, err = auth.ValidateToken(again)
	assert.NoError(t, err)
}

func TestLogoutWithoutStore(t *testing.T) {
	e := newEnv(t)
	auth := service.NewAuthService(e.db, testSecret, time.Hour, nil)

	token, err := auth.TokenFor(&models.User{ID: uuid.New(), Username: "chef", Role: models.RoleUser})
	require.NoError(t, err)
	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)

	require.NoError(t, auth.Logout(context.Background(), claims))
	_, err = auth.ValidateToken(token)
	assert.NoError(t, err)
}

func TestRedisTokenStore(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	store := service.NewRedisTokenStore(client)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Minute))
	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, "auth:revoked:jti-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
