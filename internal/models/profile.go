package models

import (
	"time"
)

// SocialLinks holds optional social handles shown on the public trade page.
type SocialLinks struct {
	Twitter   *string `json:"twitter,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Discord   *string `json:"discord,omitempty"`
}

// Profile is a user's public trading identity. Username is fixed at creation.
type Profile struct {
	ID          uint        `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      string      `json:"user_id" gorm:"not null;uniqueIndex"`
	Username    string      `json:"username" gorm:"not null;uniqueIndex"`
	Bio         *string     `json:"bio,omitempty"`
	SocialLinks SocialLinks `json:"social_links" gorm:"embedded;embeddedPrefix:social_"`
	AvatarPath  *string     `json:"avatar_path,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type CreateProfileRequest struct {
	Username string  `json:"username" binding:"required"`
	Bio      *string `json:"bio"`
}

type UpdateProfileRequest struct {
	Bio         *string      `json:"bio"`
	SocialLinks *SocialLinks `json:"social_links"`
}

// PublicProfile is the payload behind /trade/:username.
type PublicProfile struct {
	Profile   Profile          `json:"profile"`
	Tradeable []TradeableEntry `json:"tradeable"`
	Wants     []WantEntry      `json:"wants"`
}
