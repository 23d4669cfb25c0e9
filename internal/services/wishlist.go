package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/magic-inventory/server/internal/models"
)

type WishlistService struct {
	db         *gorm.DB
	catalog    *CatalogService
	reconciler *Reconciler
}

func NewWishlistService(db *gorm.DB, catalog *CatalogService, reconciler *Reconciler) *WishlistService {
	return &WishlistService{
		db:         db,
		catalog:    catalog,
		reconciler: reconciler,
	}
}

func (s *WishlistService) List(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	err := s.db.WithContext(ctx).
		Preload("Card").
		Where("user_id = ?", userID).
		Find(&items).Error
	return items, err
}

// Add puts a card on the user's wishlist. A second add of the same card
// reports alreadyExists without touching the existing row.
func (s *WishlistService) Add(ctx context.Context, userID uint, cardID string) (card *models.Card, alreadyExists bool, err error) {
	card, err = s.catalog.GetOrFetch(ctx, cardID)
	if err != nil {
		return nil, false, err
	}

	alreadyExists, err = s.reconciler.AddIfAbsent(ctx, &models.WishlistItem{
		UserID: userID,
		CardID: cardID,
	})
	if err != nil {
		return nil, false, err
	}
	return card, alreadyExists, nil
}

func (s *WishlistService) Remove(ctx context.Context, userID uint, cardID string) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND card_id = ?", userID, cardID).
		Delete(&models.WishlistItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
