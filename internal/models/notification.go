package models

import (
	"time"
)

type NotificationType string

const (
	NotificationMatchFound    NotificationType = "match_found"
	NotificationTradeRequest  NotificationType = "trade_request"
	NotificationTradeAccepted NotificationType = "trade_accepted"
)

// Notification is part of the schema only. Nothing creates, reads or marks
// these rows yet.
type Notification struct {
	ID            uint             `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID        string           `json:"user_id" gorm:"not null;index;index:idx_notification_user_read"`
	Type          NotificationType `json:"type" gorm:"not null"`
	Title         string           `json:"title"`
	Message       string           `json:"message"`
	RelatedCardID *string          `json:"related_card_id,omitempty"`
	RelatedUserID *string          `json:"related_user_id,omitempty"`
	Read          bool             `json:"read" gorm:"not null;default:false;index:idx_notification_user_read"`
	CreatedAt     time.Time        `json:"created_at"`
}
