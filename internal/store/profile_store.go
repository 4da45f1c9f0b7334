package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate record")

type ProfileStore struct {
	db *gorm.DB
}

func NewProfileStore(db *gorm.DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Create inserts profile, mapping unique-index violations to ErrDuplicate.
func (s *ProfileStore) Create(ctx context.Context, profile *models.Profile) error {
	if err := s.db.WithContext(ctx).Create(profile).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// GetByUserID returns nil, nil when the user has no profile.
func (s *ProfileStore) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	return s.first(ctx, "user_id = ?", userID)
}

// GetByUsername returns nil, nil when no profile has that username.
func (s *ProfileStore) GetByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.first(ctx, "username = ?", username)
}

// UpdateDetails overwrites bio and social links. Username is never written.
func (s *ProfileStore) UpdateDetails(ctx context.Context, profile *models.Profile) error {
	err := s.db.WithContext(ctx).
		Model(profile).
		Select("bio", "social_twitter", "social_instagram", "social_discord", "updated_at").
		Updates(map[string]interface{}{
			"bio":              profile.Bio,
			"social_twitter":   profile.SocialLinks.Twitter,
			"social_instagram": profile.SocialLinks.Instagram,
			"social_discord":   profile.SocialLinks.Discord,
			"updated_at":       s.db.NowFunc(),
		}).Error
	if err != nil {
		return fmt.Errorf("update profile %d: %w", profile.ID, err)
	}
	return nil
}

func (s *ProfileStore) SetAvatarPath(ctx context.Context, profileID uint, path string) error {
	err := s.db.WithContext(ctx).
		Model(&models.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]interface{}{"avatar_path": path, "updated_at": s.db.NowFunc()}).Error
	if err != nil {
		return fmt.Errorf("set avatar for profile %d: %w", profileID, err)
	}
	return nil
}

func (s *ProfileStore) first(ctx context.Context, query string, arg string) (*models.Profile, error) {
	var profile models.Profile
	err := s.db.WithContext(ctx).Where(query, arg).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
