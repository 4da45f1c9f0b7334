package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
	"github.com/allenlarson/pokemontcgtrader/internal/store"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,30}$`)

// ValidUsername reports whether username may be claimed.
func ValidUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

// ProfileService manages trading profiles and the public trade page.
type ProfileService struct {
	profiles *store.ProfileStore
	trades   *store.TradeStore
	avatars  *AvatarStorage
}

func NewProfileService(profiles *store.ProfileStore, trades *store.TradeStore, avatars *AvatarStorage) *ProfileService {
	return &ProfileService{profiles: profiles, trades: trades, avatars: avatars}
}

// CreateProfile claims username for userID. A user has at most one profile
// and a username belongs to at most one user.
func (s *ProfileService) CreateProfile(ctx context.Context, userID, username string, bio *string) (*models.Profile, error) {
	username = strings.TrimSpace(username)
	if !ValidUsername(username) {
		return nil, ErrInvalidUsername
	}

	taken, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken != nil {
		return nil, ErrUsernameTaken
	}
	existing, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	profile := &models.Profile{UserID: userID, Username: username, Bio: bio}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if !errors.Is(err, store.ErrDuplicate) {
			return nil, err
		}
		// Lost a race with a concurrent create; work out which index fired.
		if owner, _ := s.profiles.GetByUsername(ctx, username); owner != nil {
			return nil, ErrUsernameTaken
		}
		return nil, ErrProfileExists
	}

	log.WithFields(log.Fields{"user_id": userID, "username": username}).Info("Profiles: created profile")
	return profile, nil
}

func (s *ProfileService) GetProfileByUser(ctx context.Context, userID string) (*models.Profile, error) {
	return s.profiles.GetByUserID(ctx, userID)
}

func (s *ProfileService) GetProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	return s.profiles.GetByUsername(ctx, username)
}

// UpdateProfile replaces the bio and the social links; nil clears them. The
// username cannot be changed.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, bio *string, links *models.SocialLinks) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	profile.Bio = bio
	profile.SocialLinks = models.SocialLinks{}
	if links != nil {
		profile.SocialLinks = *links
	}
	if err := s.profiles.UpdateDetails(ctx, profile); err != nil {
		return nil, err
	}
	return s.profiles.GetByUserID(ctx, userID)
}

// IsUsernameAvailable returns ErrInvalidUsername for names that could never be claimed.
func (s *ProfileService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if !ValidUsername(username) {
		return false, ErrInvalidUsername
	}
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil {
		return false, err
	}
	return profile == nil, nil
}

// SetAvatar stores a new profile picture and drops the previous one.
func (s *ProfileService) SetAvatar(ctx context.Context, userID string, imageData []byte) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}

	filename, err := s.avatars.Save(imageData)
	if err != nil {
		return nil, err
	}
	path := AvatarURLPrefix + filename
	if err := s.profiles.SetAvatarPath(ctx, profile.ID, path); err != nil {
		_ = s.avatars.Delete(filename)
		return nil, err
	}

	if profile.AvatarPath != nil {
		if err := s.avatars.Delete(*profile.AvatarPath); err != nil {
			log.WithError(err).WithField("path", *profile.AvatarPath).Warn("Profiles: could not remove old avatar")
		}
	}
	profile.AvatarPath = &path
	return profile, nil
}

// GetPublicProfile returns nil, nil when no profile has that username.
func (s *ProfileService) GetPublicProfile(ctx context.Context, username string) (*models.PublicProfile, error) {
	profile, err := s.profiles.GetByUsername(ctx, username)
	if err != nil || profile == nil {
		return nil, err
	}

	tradeable, err := s.trades.ListTradeable(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("public profile %s: %w", username, err)
	}
	wants, err := s.trades.ListWants(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("public profile %s: %w", username, err)
	}

	return &models.PublicProfile{Profile: *profile, Tradeable: tradeable, Wants: wants}, nil
}
