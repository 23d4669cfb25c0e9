package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magic-inventory/server/internal/models"
)

// counterTable names a (owner, card, count) table the reconciler works
// on. Inventory rows and deck membership rows share the exact same
// bookkeeping, so one algorithm serves both.
type counterTable struct {
	table    string
	ownerCol string
	countCol string
}

var (
	inventoryCounts = counterTable{table: "inventory_items", ownerCol: "user_id", countCol: "quantity"}
	deckCounts      = counterTable{table: "deck_cards", ownerCol: "deck_id", countCol: "count"}
)

// IncrementResult reports whether an increment created a new row.
type IncrementResult struct {
	IsNewRow bool `json:"isNewRow"`
}

// DecrementResult reports the outcome of a decrement. Remaining is 0
// when the row was deleted.
type DecrementResult struct {
	Found     bool `json:"found"`
	Deleted   bool `json:"deleted"`
	Remaining int  `json:"remaining"`
}

// Reconciler owns the shared increment/decrement-with-floor algorithm.
// Counts never go below 1 in a stored row; the count==1 decrement deletes
// the row. Every mutation is a single conditional statement inside a
// transaction, checked by affected-row count, so a concurrent increment
// and decrement on the same (owner, card) pair cannot interleave into an
// inconsistent count.
type Reconciler struct {
	db *gorm.DB
}

func NewReconciler(db *gorm.DB) *Reconciler {
	return &Reconciler{db: db}
}

// Increment bumps the count for (owner, card) by 1, or inserts a fresh
// row with count 1 via the caller-supplied insert func when no row
// exists. The insert func carries the table's per-row defaults, like the
// inventory condition and price-at-add snapshot.
func (r *Reconciler) Increment(ctx context.Context, t counterTable, ownerID uint, cardID string, insert func(tx *gorm.DB) error) (IncrementResult, error) {
	var result IncrementResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd := tx.Exec(
			fmt.Sprintf("UPDATE %s SET %s = %s + 1 WHERE %s = ? AND card_id = ?",
				t.table, t.countCol, t.countCol, t.ownerCol),
			ownerID, cardID,
		)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected > 0 {
			return nil
		}

		result.IsNewRow = true
		return insert(tx)
	})

	return result, err
}

// Decrement lowers the count for (owner, card) by 1. A count of 1 means
// the row is deleted instead; a missing row reports Found=false.
func (r *Reconciler) Decrement(ctx context.Context, t counterTable, ownerID uint, cardID string) (DecrementResult, error) {
	var result DecrementResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upd := tx.Exec(
			fmt.Sprintf("UPDATE %s SET %s = %s - 1 WHERE %s = ? AND card_id = ? AND %s > 1",
				t.table, t.countCol, t.countCol, t.ownerCol, t.countCol),
			ownerID, cardID,
		)
		if upd.Error != nil {
			return upd.Error
		}
		if upd.RowsAffected > 0 {
			result.Found = true
			return tx.Raw(
				fmt.Sprintf("SELECT %s FROM %s WHERE %s = ? AND card_id = ?",
					t.countCol, t.table, t.ownerCol),
				ownerID, cardID,
			).Scan(&result.Remaining).Error
		}

		del := tx.Exec(
			fmt.Sprintf("DELETE FROM %s WHERE %s = ? AND card_id = ? AND %s <= 1",
				t.table, t.ownerCol, t.countCol),
			ownerID, cardID,
		)
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected > 0 {
			result.Found = true
			result.Deleted = true
		}
		return nil
	})

	return result, err
}

// SetCount assigns an absolute count to an existing row. Only inventory
// uses this; deck counts move strictly by increment/decrement. A
// non-positive n is rejected with ErrInvalidQuantity and the row stays
// untouched: setting to zero is not a removal.
func (r *Reconciler) SetCount(ctx context.Context, t counterTable, ownerID uint, cardID string, n int) error {
	if n <= 0 {
		return ErrInvalidQuantity
	}

	upd := r.db.WithContext(ctx).Exec(
		fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ? AND card_id = ?",
			t.table, t.countCol, t.ownerCol),
		n, ownerID, cardID,
	)
	if upd.Error != nil {
		return upd.Error
	}
	if upd.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddIfAbsent inserts a wishlist row unless one already exists for the
// (user, card) pair. Wishlist membership is presence-only, so a duplicate
// add is a no-op signal, never an increment.
func (r *Reconciler) AddIfAbsent(ctx context.Context, item *models.WishlistItem) (alreadyExists bool, err error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "card_id"}},
		DoNothing: true,
	}).Create(item)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 0, nil
}
