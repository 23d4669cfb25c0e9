package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/magic-inventory/server/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Card{},
		&models.InventoryItem{},
		&models.WishlistItem{},
		&models.Deck{},
		&models.DeckCard{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func insertInventoryRow(userID uint, cardID string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		return tx.Create(&models.InventoryItem{
			UserID:    userID,
			CardID:    cardID,
			Quantity:  1,
			Condition: models.DefaultCondition,
		}).Error
	}
}

func inventoryQuantity(t *testing.T, db *gorm.DB, userID uint, cardID string) (int, bool) {
	t.Helper()
	var item models.InventoryItem
	err := db.Where("user_id = ? AND card_id = ?", userID, cardID).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false
	}
	if err != nil {
		t.Fatalf("failed to read inventory row: %v", err)
	}
	return item.Quantity, true
}

func TestIncrement_CreatesThenBumps(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	res, err := r.Increment(ctx, inventoryCounts, 1, "bolt", insertInventoryRow(1, "bolt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsNewRow {
		t.Error("expected first increment to create a new row")
	}

	res, err = r.Increment(ctx, inventoryCounts, 1, "bolt", insertInventoryRow(1, "bolt"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsNewRow {
		t.Error("expected second increment to update the existing row")
	}

	qty, found := inventoryQuantity(t, db, 1, "bolt")
	if !found {
		t.Fatal("expected inventory row to exist")
	}
	if qty != 2 {
		t.Errorf("expected quantity 2, got %d", qty)
	}
}

func TestDecrement_LastCopyDeletesRow(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	if _, err := r.Increment(ctx, inventoryCounts, 1, "bolt", insertInventoryRow(1, "bolt")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := r.Decrement(ctx, inventoryCounts, 1, "bolt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Found {
		t.Error("expected the row to be found")
	}
	if !res.Deleted {
		t.Error("expected decrementing a quantity of 1 to delete the row")
	}
	if _, found := inventoryQuantity(t, db, 1, "bolt"); found {
		t.Error("expected no inventory row after deletion")
	}
}

func TestIncrementDecrement_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	const n = 4
	for i := 0; i < n; i++ {
		if _, err := r.Increment(ctx, inventoryCounts, 1, "bolt", insertInventoryRow(1, "bolt")); err != nil {
			t.Fatalf("increment %d failed: %v", i, err)
		}
	}

	// N-1 decrements leave a single copy.
	for i := 0; i < n-1; i++ {
		res, err := r.Decrement(ctx, inventoryCounts, 1, "bolt")
		if err != nil {
			t.Fatalf("decrement %d failed: %v", i, err)
		}
		if res.Deleted {
			t.Fatalf("decrement %d deleted the row early", i)
		}
		if res.Remaining != n-1-i {
			t.Errorf("expected %d remaining after decrement %d, got %d", n-1-i, i, res.Remaining)
		}
	}

	res, err := r.Decrement(ctx, inventoryCounts, 1, "bolt")
	if err != nil {
		t.Fatalf("final decrement failed: %v", err)
	}
	if !res.Deleted {
		t.Error("expected the final decrement to delete the row")
	}

	res, err = r.Decrement(ctx, inventoryCounts, 1, "bolt")
	if err != nil {
		t.Fatalf("decrement on absent row failed: %v", err)
	}
	if res.Found {
		t.Error("expected Found=false for an absent row")
	}
}

func TestDecrement_ScopedToOwner(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	if _, err := r.Increment(ctx, inventoryCounts, 1, "bolt", insertInventoryRow(1, "bolt")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := r.Decrement(ctx, inventoryCounts, 2, "bolt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Found {
		t.Error("expected another user's decrement to miss")
	}
	if _, found := inventoryQuantity(t, db, 1, "bolt"); !found {
		t.Error("expected user 1's row to survive")
	}
}

func TestSetCount(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	if _, err := r.Increment(ctx, inventoryCounts, 1, "bolt", insertInventoryRow(1, "bolt")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := r.SetCount(ctx, inventoryCounts, 1, "bolt", 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	qty, _ := inventoryQuantity(t, db, 1, "bolt")
	if qty != 7 {
		t.Errorf("expected quantity 7, got %d", qty)
	}

	if err := r.SetCount(ctx, inventoryCounts, 1, "bolt", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for zero, got %v", err)
	}
	if err := r.SetCount(ctx, inventoryCounts, 1, "bolt", -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity for a negative count, got %v", err)
	}
	qty, _ = inventoryQuantity(t, db, 1, "bolt")
	if qty != 7 {
		t.Errorf("expected rejected set to leave quantity at 7, got %d", qty)
	}

	if err := r.SetCount(ctx, inventoryCounts, 1, "no-such-card", 3); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a missing row, got %v", err)
	}
}

func TestAddIfAbsent(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	exists, err := r.AddIfAbsent(ctx, &models.WishlistItem{UserID: 1, CardID: "bolt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected first add to report not-already-present")
	}

	exists, err = r.AddIfAbsent(ctx, &models.WishlistItem{UserID: 1, CardID: "bolt"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected duplicate add to report already-present")
	}

	var count int64
	if err := db.Model(&models.WishlistItem{}).Where("user_id = ? AND card_id = ?", 1, "bolt").Count(&count).Error; err != nil {
		t.Fatalf("failed to count wishlist rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one wishlist row, got %d", count)
	}
}

func TestDeckCounts_SharesAlgorithm(t *testing.T) {
	db := newTestDB(t)
	r := NewReconciler(db)
	ctx := context.Background()

	insert := func(tx *gorm.DB) error {
		return tx.Create(&models.DeckCard{DeckID: 10, CardID: "bolt", Count: 1}).Error
	}

	if _, err := r.Increment(ctx, deckCounts, 10, "bolt", insert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Increment(ctx, deckCounts, 10, "bolt", insert); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var dc models.DeckCard
	if err := db.Where("deck_id = ? AND card_id = ?", 10, "bolt").First(&dc).Error; err != nil {
		t.Fatalf("failed to read deck card: %v", err)
	}
	if dc.Count != 2 {
		t.Errorf("expected count 2, got %d", dc.Count)
	}

	res, err := r.Decrement(ctx, deckCounts, 10, "bolt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Remaining != 1 {
		t.Errorf("expected 1 remaining, got %d", res.Remaining)
	}
}
