package services

import (
	"context"
	"errors"
	"testing"

	"github.com/magic-inventory/server/internal/models"
)

func newTestInventoryService(t *testing.T, cards ...models.Card) *InventoryService {
	t.Helper()
	db := newTestDB(t)
	for i := range cards {
		if err := db.Create(&cards[i]).Error; err != nil {
			t.Fatalf("failed to seed card: %v", err)
		}
	}
	return NewInventoryService(db, NewCatalogService(db, nil), NewReconciler(db))
}

func strPtr(s string) *string { return &s }

func TestInventoryAdd_SnapshotsPrice(t *testing.T) {
	s := newTestInventoryService(t, models.Card{
		ID:       "bolt",
		Name:     "Lightning Bolt",
		PriceUSD: strPtr("1.50"),
	})
	ctx := context.Background()

	card, res, err := s.Add(ctx, 1, "bolt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsNewRow {
		t.Error("expected the first add to create a row")
	}
	if card.Name != "Lightning Bolt" {
		t.Errorf("expected the catalog card, got %s", card.Name)
	}

	items, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 inventory item, got %d", len(items))
	}
	item := items[0]
	if item.Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", item.Quantity)
	}
	if item.Condition != models.DefaultCondition {
		t.Errorf("expected default condition %q, got %q", models.DefaultCondition, item.Condition)
	}
	if item.Price == nil || *item.Price != "1.50" {
		t.Error("expected the price snapshot from add time")
	}
}

func TestInventoryAdd_RepeatedIncrements(t *testing.T) {
	s := newTestInventoryService(t, models.Card{ID: "bolt", Name: "Lightning Bolt"})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, _, err := s.Add(ctx, 1, "bolt"); err != nil {
			t.Fatalf("add %d failed: %v", i, err)
		}
	}

	items, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected a single row, got %d", len(items))
	}
	if items[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", items[0].Quantity)
	}
}

func TestInventoryRemove(t *testing.T) {
	s := newTestInventoryService(t, models.Card{ID: "bolt", Name: "Lightning Bolt"})
	ctx := context.Background()

	if _, _, err := s.Add(ctx, 1, "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := s.Add(ctx, 1, "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Remove drops the row regardless of quantity.
	if err := s.Remove(ctx, 1, "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Remove(ctx, 1, "bolt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a second removal, got %v", err)
	}
}

func TestInventorySorted_ByName(t *testing.T) {
	s := newTestInventoryService(t,
		models.Card{ID: "c1", Name: "Zephyr"},
		models.Card{ID: "c2", Name: "Anthem"},
	)
	ctx := context.Background()

	if _, _, err := s.Add(ctx, 1, "c1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := s.Add(ctx, 1, "c2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := s.Sorted(ctx, 1, "name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Card.Name != "Anthem" {
		t.Errorf("expected 'Anthem' first, got %s", items[0].Card.Name)
	}
}

func TestInventorySearch_Filters(t *testing.T) {
	s := newTestInventoryService(t,
		models.Card{ID: "c1", Name: "Urza, Lord High Artificer", TypeLine: strPtr("Legendary Creature"), IsLegendary: true},
		models.Card{ID: "c2", Name: "Mountain", TypeLine: strPtr("Basic Land - Mountain"), IsLand: true},
		models.Card{ID: "c3", Name: "Shock", TypeLine: strPtr("Instant"), ManaCost: strPtr("{R}")},
	)
	ctx := context.Background()

	for _, id := range []string{"c1", "c2", "c3"} {
		if _, _, err := s.Add(ctx, 1, id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	legendary, err := s.Search(ctx, 1, CollectionFilter{Legendary: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(legendary) != 1 || legendary[0].CardID != "c1" {
		t.Errorf("expected only the legendary card, got %d items", len(legendary))
	}

	lands, err := s.Search(ctx, 1, CollectionFilter{Land: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lands) != 1 || lands[0].CardID != "c2" {
		t.Errorf("expected only the land, got %d items", len(lands))
	}

	byName, err := s.Search(ctx, 1, CollectionFilter{Query: "shock"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byName) != 1 || byName[0].CardID != "c3" {
		t.Errorf("expected a case-insensitive name match, got %d items", len(byName))
	}

	red, err := s.Search(ctx, 1, CollectionFilter{Color: "R"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(red) != 1 || red[0].CardID != "c3" {
		t.Errorf("expected only the red card, got %d items", len(red))
	}
}

func TestInventory_ScopedToUser(t *testing.T) {
	s := newTestInventoryService(t, models.Card{ID: "bolt", Name: "Lightning Bolt"})
	ctx := context.Background()

	if _, _, err := s.Add(ctx, 1, "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected user 2's inventory to be empty, got %d items", len(items))
	}
}
