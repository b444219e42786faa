package service

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/metrics"
	"github.com/pageza/foodgram/backend/internal/models"
	"github.com/pageza/foodgram/backend/internal/types"
)

// SubscriptionService tracks which authors a user follows.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Subscribe makes userID follow authorID and returns the author.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (author *models.User, err error) {
	defer func() {
		metrics.MembershipChanges.WithLabelValues("subscriptions", "add", mutationOutcome(err)).Inc()
	}()

	if userID == authorID {
		return nil, &ConflictError{Resource: "subscription", Message: "you cannot subscribe to yourself"}
	}

	db := s.db.WithContext(ctx)

	var a models.User
	if err := db.First(&a, "id = ?", authorID).Error; err != nil {
		return nil, notFoundOr(err, "user", authorID.String())
	}

	exists, err := s.Exists(ctx, userID, authorID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errAlreadySubscribed
	}

	if err := db.Create(&models.Subscription{UserID: userID, AuthorID: authorID}).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, errAlreadySubscribed
		}
		return nil, err
	}

	logging.Ctx(ctx).Debug().Str("user_id", userID.String()).Str("author_id", authorID.String()).Msg("subscribed")
	return &a, nil
}

var errAlreadySubscribed = &ConflictError{Resource: "subscription", Message: "you are already subscribed to this author"}

func (s *SubscriptionService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) (err error) {
	defer func() {
		metrics.MembershipChanges.WithLabelValues("subscriptions", "remove", mutationOutcome(err)).Inc()
	}()

	db := s.db.WithContext(ctx)

	var n int64
	if err := db.Model(&models.User{}).Where("id = ?", authorID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Resource: "user", ID: authorID.String()}
	}

	res := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Resource: "subscription"}
	}

	logging.Ctx(ctx).Debug().Str("user_id", userID.String()).Str("author_id", authorID.String()).Msg("unsubscribed")
	return nil
}

func (s *SubscriptionService) Exists(ctx context.Context, userID, authorID uuid.UUID) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&n).Error
	return n > 0, err
}

// List returns a page of the authors userID follows, most recent first.
func (s *SubscriptionService) List(ctx context.Context, userID uuid.UUID, page types.PageRequest) ([]models.User, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID).
		Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var authors []models.User
	paged := query.Select("users.*").Order("subscriptions.date_added DESC").Order("users.id")
	if page.Limit > 0 {
		paged = paged.Limit(page.Limit).Offset(page.Offset())
	}
	if err := paged.Find(&authors).Error; err != nil {
		return nil, 0, err
	}
	return authors, total, nil
}

// AuthorIDs reports which of authorIDs userID follows.
func (s *SubscriptionService) AuthorIDs(ctx context.Context, userID uuid.UUID, authorIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	found := make(map[uuid.UUID]bool, len(authorIDs))
	if len(authorIDs) == 0 {
		return found, nil
	}
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", userID, authorIDs).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		found[id] = true
	}
	return found, nil
}

// RecipesPreview returns the author's newest recipes. A negative limit
// returns all of them.
func (s *SubscriptionService) RecipesPreview(ctx context.Context, authorID uuid.UUID, limit int) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	if limit == 0 {
		return recipes, nil
	}
	query := s.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("pub_date DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (s *SubscriptionService) RecipeCount(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", authorID).Count(&n).Error
	return n, err
}
