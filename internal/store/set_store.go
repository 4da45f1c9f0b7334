package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

// SetStore is the local set cache.
type SetStore struct {
	db *gorm.DB
}

func NewSetStore(db *gorm.DB) *SetStore {
	return &SetStore{db: db}
}

// GetBySetID returns nil, nil when the set is not cached.
func (s *SetStore) GetBySetID(ctx context.Context, setID string) (*models.Set, error) {
	var set models.Set
	err := s.db.WithContext(ctx).Where("set_id = ?", setID).First(&set).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get set %s: %w", setID, err)
	}
	return &set, nil
}

// InsertIfAbsent works like CardStore.InsertIfAbsent, keyed by SetID.
func (s *SetStore) InsertIfAbsent(ctx context.Context, set *models.Set) (bool, error) {
	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "set_id"}},
			DoNothing: true,
		}).
		Create(set)
	if result.Error != nil {
		return false, fmt.Errorf("insert set %s: %w", set.SetID, result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ListAll returns every cached set, newest release first.
func (s *SetStore) ListAll(ctx context.Context) ([]models.Set, error) {
	var sets []models.Set
	if err := s.db.WithContext(ctx).Order("release_date DESC, id").Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("list sets: %w", err)
	}
	return sets, nil
}

func (s *SetStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Set{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count sets: %w", err)
	}
	return count, nil
}
