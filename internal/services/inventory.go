package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/magic-inventory/server/internal/models"
)

// CollectionFilter narrows a user's inventory or deck to cards matching
// the given criteria. The legendary/land filters match the flags derived
// at normalization time, not a re-parse of the type line.
type CollectionFilter struct {
	Query     string `form:"query"`
	Color     string `form:"color"`
	Type      string `form:"type"`
	Legendary bool   `form:"isLegendary"`
	Land      bool   `form:"isLand"`
}

type InventoryService struct {
	db         *gorm.DB
	catalog    *CatalogService
	reconciler *Reconciler
}

func NewInventoryService(db *gorm.DB, catalog *CatalogService, reconciler *Reconciler) *InventoryService {
	return &InventoryService{
		db:         db,
		catalog:    catalog,
		reconciler: reconciler,
	}
}

func (s *InventoryService) List(ctx context.Context, userID uint) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Find(&items).Error
	return items, err
}

// Sorted lists the inventory ordered by card name or mana cost. Any
// other sortBy value leaves insertion order.
func (s *InventoryService) Sorted(ctx context.Context, userID uint, sortBy string) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).
		Preload("Card").
		Joins("JOIN cards ON cards.id = inventory_items.card_id").
		Where("inventory_items.user_id = ?", userID)

	switch sortBy {
	case "name":
		q = q.Order("cards.name ASC")
	case "mana_cost":
		q = q.Order("cards.mana_cost ASC")
	}

	var items []models.InventoryItem
	err := q.Find(&items).Error
	return items, err
}

func (s *InventoryService) Search(ctx context.Context, userID uint, f CollectionFilter) ([]models.InventoryItem, error) {
	q := s.db.WithContext(ctx).
		Preload("Card").
		Joins("JOIN cards ON cards.id = inventory_items.card_id").
		Where("inventory_items.user_id = ?", userID)
	q = applyCardFilter(q, f)

	var items []models.InventoryItem
	err := q.Find(&items).Error
	return items, err
}

// Add puts one copy of a card into the user's inventory, fetching the
// card into the catalog first if needed. New rows start at quantity 1
// with the default condition and a price snapshot taken at add time.
func (s *InventoryService) Add(ctx context.Context, userID uint, cardID string) (*models.Card, IncrementResult, error) {
	card, err := s.catalog.GetOrFetch(ctx, cardID)
	if err != nil {
		return nil, IncrementResult{}, err
	}

	result, err := s.reconciler.Increment(ctx, inventoryCounts, userID, cardID, func(tx *gorm.DB) error {
		return tx.Create(&models.InventoryItem{
			UserID:    userID,
			CardID:    cardID,
			Quantity:  1,
			Condition: models.DefaultCondition,
			Price:     card.PriceUSD,
		}).Error
	})
	if err != nil {
		return nil, IncrementResult{}, err
	}
	return card, result, nil
}

// SetQuantity assigns an absolute quantity to an existing inventory row.
// Rejects n <= 0 with ErrInvalidQuantity; removing a card is a separate
// operation, not a set-to-zero.
func (s *InventoryService) SetQuantity(ctx context.Context, userID uint, cardID string, n int) error {
	return s.reconciler.SetCount(ctx, inventoryCounts, userID, cardID, n)
}

// Decrement removes one copy; the last copy deletes the row.
func (s *InventoryService) Decrement(ctx context.Context, userID uint, cardID string) (DecrementResult, error) {
	return s.reconciler.Decrement(ctx, inventoryCounts, userID, cardID)
}

// Remove deletes the row outright regardless of quantity.
func (s *InventoryService) Remove(ctx context.Context, userID uint, cardID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// applyCardFilter appends shared card criteria to a query already joined
// against the cards table.
func applyCardFilter(q *gorm.DB, f CollectionFilter) *gorm.DB {
	if f.Query != "" {
		q = q.Where("cards.name LIKE ?", "%"+f.Query+"%")
	}
	if f.Color != "" {
		q = q.Where("cards.mana_cost LIKE ?", "%"+f.Color+"%")
	}
	if f.Type != "" {
		q = q.Where("cards.type_line LIKE ?", "%"+f.Type+"%")
	}
	if f.Legendary {
		q = q.Where("cards.is_legendary = ?", true)
	}
	if f.Land {
		q = q.Where("cards.is_land = ?", true)
	}
	return q
}
