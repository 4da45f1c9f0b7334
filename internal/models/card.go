package models

import (
	"time"

	"gorm.io/datatypes"
)

// Card is a cached Pokemon TCG API card. Rows are written once and never
// updated; re-ingesting a known CardID is a no-op.
type Card struct {
	ID          uint                        `json:"-" gorm:"primaryKey;autoIncrement"`
	CardID      string                      `json:"card_id" gorm:"not null;uniqueIndex"`
	Name        string                      `json:"name" gorm:"not null;index"`
	SetID       string                      `json:"set_id" gorm:"not null;index"`
	SetName     string                      `json:"set_name"`
	Rarity      *string                     `json:"rarity,omitempty"`
	Types       datatypes.JSONSlice[string] `json:"types,omitempty"`
	ImageURL    *string                     `json:"image_url,omitempty"`
	MarketPrice *float64                    `json:"market_price,omitempty"`
	LastUpdated time.Time                   `json:"last_updated"`
}

// HasAnyType reports whether the card shares at least one type tag with types.
// A card without tags never matches.
func (c *Card) HasAnyType(types []string) bool {
	for _, want := range types {
		for _, have := range c.Types {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Set is a cached Pokemon TCG API set.
type Set struct {
	ID          uint    `json:"-" gorm:"primaryKey;autoIncrement"`
	SetID       string  `json:"set_id" gorm:"not null;uniqueIndex"`
	Name        string  `json:"name" gorm:"not null"`
	Series      string  `json:"series" gorm:"index"`
	ReleaseDate string  `json:"release_date"`
	TotalCards  int     `json:"total_cards"`
	LogoURL     *string `json:"logo_url,omitempty"`
}

// TableName keeps sets out of the way of SQL's SET keyword.
func (Set) TableName() string {
	return "card_sets"
}

// CardFilter holds the optional search filters. Zero values always pass.
type CardFilter struct {
	SearchTerm string   `json:"search_term,omitempty"`
	SetID      string   `json:"set_id,omitempty"`
	Rarity     string   `json:"rarity,omitempty"`
	Types      []string `json:"types,omitempty"`
}

type CardSearchResult struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
}

// CardPage is one page of freshly fetched cards plus the source's pagination metadata.
type CardPage struct {
	Cards      []Card `json:"cards"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
	NewCards   int    `json:"new_cards"`
}

// SetSweepResult summarizes a full-set sweep.
type SetSweepResult struct {
	SetID               string `json:"set_id"`
	TotalCardsProcessed int    `json:"total_cards_processed"`
	NewCards            int    `json:"new_cards"`
	ExpectedCards       int    `json:"expected_cards"`
	PagesProcessed      int    `json:"pages_processed"`
	Message             string `json:"message"`
}

// SetRefreshResult summarizes a set-list refresh.
type SetRefreshResult struct {
	TotalSets int    `json:"total_sets"`
	NewSets   int    `json:"new_sets"`
	Message   string `json:"message"`
}
