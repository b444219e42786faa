package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// Register creates a regular user. Email and username are unique.
func (s *UserService) Register(ctx context.Context, req *types.RegisterRequest) (*models.User, error) {
	db := s.db.WithContext(ctx)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	var n int64
	if err := db.Model(&models.User{}).
		Where("LOWER(email) = ? OR username = ?", email, req.Username).
		Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, errUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := db.Create(&user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errUserExists
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID.String()).Str("username", user.Username).Msg("user registered")
	return &user, nil
}

var errUserExists = &ConflictError{Resource: "user", Message: "a user with this email or username already exists"}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFoundOr(err, "user", id.String())
	}
	return &user, nil
}

// List returns a page of users ordered by username.
func (s *UserService) List(ctx context.Context, page types.PageRequest) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	paged := query.Order("username ASC")
	if page.Limit > 0 {
		paged = paged.Limit(page.Limit).Offset(page.Offset())
	}
	if err := paged.Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
