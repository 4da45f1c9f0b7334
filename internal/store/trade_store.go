package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

// TradeStore holds tradeable cards and want lists.
type TradeStore struct {
	db *gorm.DB
}

func NewTradeStore(db *gorm.DB) *TradeStore {
	return &TradeStore{db: db}
}

// UpsertTradeable adds entry or, when the user already lists the card, adds
// its quantity to the existing row and overwrites condition and notes. The
// stored row is returned.
func (s *TradeStore) UpsertTradeable(ctx context.Context, entry *models.TradeableEntry) (*models.TradeableEntry, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "card_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("tradeable_cards.quantity + excluded.quantity"),
				"condition":  gorm.Expr("excluded.condition"),
				"notes":      gorm.Expr("excluded.notes"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Omit("Card").
		Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("upsert tradeable %s/%s: %w", entry.UserID, entry.CardID, err)
	}
	return s.getTradeable(ctx, entry.UserID, entry.CardID)
}

// UpsertWant adds entry or overwrites priority, max condition and notes.
func (s *TradeStore) UpsertWant(ctx context.Context, entry *models.WantEntry) (*models.WantEntry, error) {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "card_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"priority", "max_condition", "notes", "updated_at"}),
		}).
		Omit("Card").
		Create(entry).Error
	if err != nil {
		return nil, fmt.Errorf("upsert want %s/%s: %w", entry.UserID, entry.CardID, err)
	}
	return s.getWant(ctx, entry.UserID, entry.CardID)
}

// DeleteTradeable removes the user's entry for cardID. Missing entries are not an error.
func (s *TradeStore) DeleteTradeable(ctx context.Context, userID, cardID string) (bool, error) {
	result := s.db.WithContext(ctx).Where("user_id = ? AND card_id = ?", userID, cardID).Delete(&models.TradeableEntry{})
	if result.Error != nil {
		return false, fmt.Errorf("delete tradeable %s/%s: %w", userID, cardID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *TradeStore) DeleteWant(ctx context.Context, userID, cardID string) (bool, error) {
	result := s.db.WithContext(ctx).Where("user_id = ? AND card_id = ?", userID, cardID).Delete(&models.WantEntry{})
	if result.Error != nil {
		return false, fmt.Errorf("delete want %s/%s: %w", userID, cardID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListTradeable returns the user's entries with their cached card joined in
// (nil when the card was never cached).
func (s *TradeStore) ListTradeable(ctx context.Context, userID string) ([]models.TradeableEntry, error) {
	var entries []models.TradeableEntry
	if err := s.db.WithContext(ctx).Preload("Card").Where("user_id = ?", userID).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list tradeable for %s: %w", userID, err)
	}
	return entries, nil
}

func (s *TradeStore) ListWants(ctx context.Context, userID string) ([]models.WantEntry, error) {
	var entries []models.WantEntry
	if err := s.db.WithContext(ctx).Preload("Card").Where("user_id = ?", userID).Order("id").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list wants for %s: %w", userID, err)
	}
	return entries, nil
}

func (s *TradeStore) getTradeable(ctx context.Context, userID, cardID string) (*models.TradeableEntry, error) {
	var entry models.TradeableEntry
	if err := s.db.WithContext(ctx).Preload("Card").Where("user_id = ? AND card_id = ?", userID, cardID).First(&entry).Error; err != nil {
		return nil, fmt.Errorf("reload tradeable %s/%s: %w", userID, cardID, err)
	}
	return &entry, nil
}

func (s *TradeStore) getWant(ctx context.Context, userID, cardID string) (*models.WantEntry, error) {
	var entry models.WantEntry
	if err := s.db.WithContext(ctx).Preload("Card").Where("user_id = ? AND card_id = ?", userID, cardID).First(&entry).Error; err != nil {
		return nil, fmt.Errorf("reload want %s/%s: %w", userID, cardID, err)
	}
	return &entry, nil
}
