package database

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/magic-inventory/server/internal/models"
)

// Open connects to the sqlite database and migrates the schema. The
// returned handle is passed to services by their constructors.
func Open(dbPath string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	log.Println("Database connected successfully")

	err = db.AutoMigrate(
		&models.User{},
		&models.Card{},
		&models.InventoryItem{},
		&models.WishlistItem{},
		&models.Deck{},
		&models.DeckCard{},
	)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}
