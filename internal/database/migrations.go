package database

import (
	"log"

	"gorm.io/gorm"
)

// RunMigrations runs custom data migrations after the schema migration.
func RunMigrations(db *gorm.DB) error {
	if err := dedupeCountedRows(db, "inventory_items", "user_id"); err != nil {
		return err
	}
	if err := dedupeCountedRows(db, "deck_cards", "deck_id"); err != nil {
		return err
	}
	if err := defaultInventoryCondition(db); err != nil {
		return err
	}
	return nil
}

// dedupeCountedRows collapses duplicate (owner, card) rows left over from
// before the unique index existed, keeping the newest row. AutoMigrate
// cannot add the index while duplicates remain.
func dedupeCountedRows(db *gorm.DB, table, ownerCol string) error {
	if !db.Migrator().HasTable(table) {
		return nil
	}

	result := db.Exec(`
		DELETE FROM ` + table + `
		WHERE id NOT IN (
			SELECT MAX(id)
			FROM ` + table + `
			GROUP BY ` + ownerCol + `, card_id
		)
	`)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected > 0 {
		log.Printf("Cleaned up %d duplicate %s rows", result.RowsAffected, table)
	}
	return nil
}

func defaultInventoryCondition(db *gorm.DB) error {
	if !db.Migrator().HasColumn("inventory_items", "condition") {
		return nil
	}
	return db.Exec(`UPDATE inventory_items SET condition = 'Near Mint' WHERE condition IS NULL OR condition = ''`).Error
}
