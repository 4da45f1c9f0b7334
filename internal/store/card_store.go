package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

// CardStore is the local card cache.
type CardStore struct {
	db *gorm.DB
}

func NewCardStore(db *gorm.DB) *CardStore {
	return &CardStore{db: db}
}

// GetByCardID returns nil, nil when the card is not cached.
func (s *CardStore) GetByCardID(ctx context.Context, cardID string) (*models.Card, error) {
	var card models.Card
	err := s.db.WithContext(ctx).Where("card_id = ?", cardID).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get card %s: %w", cardID, err)
	}
	return &card, nil
}

// InsertIfAbsent stores card unless its CardID is already cached, in a single
// statement. It reports whether a row was written; existing rows are never touched.
func (s *CardStore) InsertIfAbsent(ctx context.Context, card *models.Card) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "card_id"}},
			DoNothing: true,
		}).
		Create(card)
	if result.Error != nil {
		return false, fmt.Errorf("insert card %s: %w", card.CardID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListBySet scans one set's partition in insertion order.
func (s *CardStore) ListBySet(ctx context.Context, setID string) ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.WithContext(ctx).Where("set_id = ?", setID).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list cards for set %s: %w", setID, err)
	}
	return cards, nil
}

// ListAll scans the whole cache in insertion order.
func (s *CardStore) ListAll(ctx context.Context) ([]models.Card, error) {
	var cards []models.Card
	if err := s.db.WithContext(ctx).Order("id").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// DistinctNames returns every cached card name once.
func (s *CardStore) DistinctNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).Model(&models.Card{}).Distinct().Order("name").Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list card names: %w", err)
	}
	return names, nil
}

func (s *CardStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Card{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count cards: %w", err)
	}
	return count, nil
}
