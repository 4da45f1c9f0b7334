package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// dedupeTargets lists tables whose natural key became unique after the
// check-then-insert era. Each entry is table -> key columns.
var dedupeTargets = []struct {
	table string
	key   string
}{
	{"cards", "card_id"},
	{"card_sets", "set_id"},
	{"tradeable_cards", "user_id, card_id"},
	{"want_list", "user_id, card_id"},
}

// cleanupDuplicateCatalogRows removes duplicate rows left by racing inserts
// before the unique indexes are created. The oldest row wins, since cached
// catalog records are write-once.
// This runs BEFORE AutoMigrate to prevent constraint violations
func cleanupDuplicateCatalogRows(db *gorm.DB) error {
	for _, t := range dedupeTargets {
		if !db.Migrator().HasTable(t.table) {
			continue
		}

		result := db.Exec(`
			DELETE FROM ` + t.table + `
			WHERE id NOT IN (
				SELECT MIN(id)
				FROM ` + t.table + `
				GROUP BY ` + t.key + `
			)
		`)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			log.Printf("Cleaned up %d duplicate %s entries", result.RowsAffected, t.table)
		}
	}

	return nil
}

// RunMigrations runs any custom data migrations after schema changes
func RunMigrations(db *gorm.DB) error {
	return migrateConditionValues(db)
}

// migrateConditionValues rewrites hyphenated or spaced condition values
// ("near-mint", "Near Mint") to the canonical snake_case form.
// This is safe to run multiple times.
func migrateConditionValues(db *gorm.DB) error {
	columns := []struct {
		table  string
		column string
	}{
		{"tradeable_cards", "condition"},
		{"want_list", "max_condition"},
	}

	for _, c := range columns {
		if !db.Migrator().HasColumn(c.table, c.column) {
			continue
		}
		result := db.Exec(`UPDATE ` + c.table + ` SET ` + c.column + ` = LOWER(REPLACE(REPLACE(` + c.column + `, '-', '_'), ' ', '_')) WHERE ` + c.column + ` <> LOWER(REPLACE(REPLACE(` + c.column + `, '-', '_'), ' ', '_'))`)
		if result.Error != nil {
			log.Printf("Warning: failed to normalize %s.%s: %v", c.table, c.column, result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			log.Printf("Normalized %d %s.%s values", result.RowsAffected, c.table, c.column)
		}
	}

	return nil
}
