package models

import (
	"strings"
	"time"
)

// Condition is the grade of a physical card.
type Condition string

const (
	ConditionMint             Condition = "mint"
	ConditionNearMint         Condition = "near_mint"
	ConditionLightlyPlayed    Condition = "lightly_played"
	ConditionModeratelyPlayed Condition = "moderately_played"
	ConditionHeavilyPlayed    Condition = "heavily_played"
	ConditionDamaged          Condition = "damaged"
)

// Priority ranks a want-list entry.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// DisplayStyle is what the UI needs to render an enum value.
type DisplayStyle struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

var conditionStyles = map[Condition]DisplayStyle{
	ConditionMint:             {Label: "Mint", Color: "text-green-600"},
	ConditionNearMint:         {Label: "Near Mint", Color: "text-green-500"},
	ConditionLightlyPlayed:    {Label: "Lightly Played", Color: "text-yellow-600"},
	ConditionModeratelyPlayed: {Label: "Moderately Played", Color: "text-orange-500"},
	ConditionHeavilyPlayed:    {Label: "Heavily Played", Color: "text-red-500"},
	ConditionDamaged:          {Label: "Damaged", Color: "text-red-600"},
}

var priorityStyles = map[Priority]DisplayStyle{
	PriorityHigh:   {Label: "High", Color: "bg-red-100 text-red-800"},
	PriorityMedium: {Label: "Medium", Color: "bg-yellow-100 text-yellow-800"},
	PriorityLow:    {Label: "Low", Color: "bg-green-100 text-green-800"},
}

// AllConditions returns every condition from best to worst.
func AllConditions() []Condition {
	return []Condition{
		ConditionMint,
		ConditionNearMint,
		ConditionLightlyPlayed,
		ConditionModeratelyPlayed,
		ConditionHeavilyPlayed,
		ConditionDamaged,
	}
}

// AllPriorities returns every priority from highest to lowest.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (c Condition) IsValid() bool {
	_, ok := conditionStyles[c]
	return ok
}

func (c Condition) Style() DisplayStyle {
	if s, ok := conditionStyles[c]; ok {
		return s
	}
	return DisplayStyle{Label: string(c), Color: "text-gray-600"}
}

func (p Priority) IsValid() bool {
	_, ok := priorityStyles[p]
	return ok
}

func (p Priority) Style() DisplayStyle {
	if s, ok := priorityStyles[p]; ok {
		return s
	}
	return DisplayStyle{Label: string(p), Color: "bg-gray-100 text-gray-800"}
}

// NormalizeCondition maps loose spellings ("Near Mint", "NM", "near-mint")
// onto a Condition. Unknown input is returned as-is so validation can reject it.
func NormalizeCondition(s string) Condition {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	switch key {
	case "m":
		return ConditionMint
	case "nm":
		return ConditionNearMint
	case "lp":
		return ConditionLightlyPlayed
	case "mp":
		return ConditionModeratelyPlayed
	case "hp":
		return ConditionHeavilyPlayed
	case "dmg":
		return ConditionDamaged
	}
	return Condition(key)
}

// TradeableEntry is a card a user offers for trade. At most one row per
// (user, card); CardID may reference a card that was never cached.
type TradeableEntry struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_tradeable_user_card"`
	CardID    string    `json:"card_id" gorm:"not null;index;uniqueIndex:idx_tradeable_user_card"`
	Card      *Card     `json:"card" gorm:"foreignKey:CardID;references:CardID"`
	Condition Condition `json:"condition" gorm:"not null"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TradeableEntry) TableName() string {
	return "tradeable_cards"
}

// WantEntry is a card a user is looking for. At most one row per (user, card).
type WantEntry struct {
	ID           uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       string    `json:"user_id" gorm:"not null;index;uniqueIndex:idx_want_user_card"`
	CardID       string    `json:"card_id" gorm:"not null;index;uniqueIndex:idx_want_user_card"`
	Card         *Card     `json:"card" gorm:"foreignKey:CardID;references:CardID"`
	Priority     Priority  `json:"priority" gorm:"not null"`
	MaxCondition Condition `json:"max_condition" gorm:"not null"`
	Notes        *string   `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WantEntry) TableName() string {
	return "want_list"
}

type AddTradeableRequest struct {
	CardID    string    `json:"card_id" binding:"required"`
	Condition Condition `json:"condition" binding:"required"`
	Quantity  int       `json:"quantity"`
	Notes     *string   `json:"notes"`
}

type AddWantRequest struct {
	CardID       string    `json:"card_id" binding:"required"`
	Priority     Priority  `json:"priority" binding:"required"`
	MaxCondition Condition `json:"max_condition" binding:"required"`
	Notes        *string   `json:"notes"`
}
