package services

import (
	"context"
	"errors"
	"testing"

	"github.com/magic-inventory/server/internal/models"
)

func newTestWishlistService(t *testing.T) *WishlistService {
	t.Helper()
	db := newTestDB(t)
	if err := db.Create(&models.Card{ID: "bolt", Name: "Lightning Bolt"}).Error; err != nil {
		t.Fatalf("failed to seed card: %v", err)
	}
	return NewWishlistService(db, NewCatalogService(db, nil), NewReconciler(db))
}

func TestWishlistAdd_DuplicateIsNoOp(t *testing.T) {
	s := newTestWishlistService(t)
	ctx := context.Background()

	card, exists, err := s.Add(ctx, 1, "bolt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected the first add to report not-already-present")
	}
	if card.Name != "Lightning Bolt" {
		t.Errorf("expected the catalog card, got %s", card.Name)
	}

	_, exists, err = s.Add(ctx, 1, "bolt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected the duplicate add to report already-present")
	}

	items, err := s.List(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected a single wishlist row, got %d", len(items))
	}
}

func TestWishlistRemove(t *testing.T) {
	s := newTestWishlistService(t)
	ctx := context.Background()

	if _, _, err := s.Add(ctx, 1, "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Remove(ctx, 1, "bolt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Remove(ctx, 1, "bolt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for a second removal, got %v", err)
	}
}
