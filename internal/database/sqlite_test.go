package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/allenlarson/pokemontcgtrader/internal/models"
)

func TestOpen_CreatesSchema(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), "silent")
	require.NoError(t, err)

	for _, table := range []string{"cards", "card_sets", "profiles", "tradeable_cards", "want_list", "notifications"} {
		assert.True(t, db.Migrator().HasTable(table), "missing table %s", table)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Card{}, "CardID"))
	assert.True(t, db.Migrator().HasIndex(&models.TradeableEntry{}, "idx_tradeable_user_card"))
}

func TestOpen_RemovesLegacyDuplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")

	// Simulate the old schema: no unique index on card_id
	legacy, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, legacy.Exec(`CREATE TABLE cards (id INTEGER PRIMARY KEY AUTOINCREMENT, card_id TEXT, name TEXT, set_id TEXT, set_name TEXT, last_updated DATETIME)`).Error)
	require.NoError(t, legacy.Exec(`INSERT INTO cards (card_id, name, set_id) VALUES ('base1-4', 'Charizard', 'base1'), ('base1-4', 'Charizard dup', 'base1'), ('base1-58', 'Pikachu', 'base1')`).Error)
	sqlDB, _ := legacy.DB()
	require.NoError(t, sqlDB.Close())

	db, err := Open(path, "silent")
	require.NoError(t, err)

	var cards []models.Card
	require.NoError(t, db.Order("id").Find(&cards).Error)
	require.Len(t, cards, 2)
	assert.Equal(t, "Charizard", cards[0].Name, "oldest row should survive")
	assert.Equal(t, "base1-58", cards[1].CardID)
}

func TestMigrateConditionValues(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cond.db"), "silent")
	require.NoError(t, err)

	require.NoError(t, db.Exec(`INSERT INTO tradeable_cards (user_id, card_id, condition, quantity) VALUES ('u1', 'c1', 'Near Mint', 1), ('u1', 'c2', 'lightly-played', 2)`).Error)
	require.NoError(t, RunMigrations(db))

	var entries []models.TradeableEntry
	require.NoError(t, db.Order("id").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, models.ConditionNearMint, entries[0].Condition)
	assert.Equal(t, models.ConditionLightlyPlayed, entries[1].Condition)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected logger.LogLevel
	}{
		{"silent", logger.Silent},
		{"ERROR", logger.Error},
		{"info", logger.Info},
		{"warn", logger.Warn},
		{"", logger.Warn},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLogLevel(tt.input))
		})
	}
}
