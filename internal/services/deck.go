package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/magic-inventory/server/internal/models"
)

type DeckService struct {
	db         *gorm.DB
	catalog    *CatalogService
	reconciler *Reconciler
	pictures   *PictureStorage
}

func NewDeckService(db *gorm.DB, catalog *CatalogService, reconciler *Reconciler, pictures *PictureStorage) *DeckService {
	return &DeckService{
		db:         db,
		catalog:    catalog,
		reconciler: reconciler,
		pictures:   pictures,
	}
}

func (s *DeckService) Create(ctx context.Context, userID uint, name string) (*models.Deck, error) {
	if name == "" {
		name = "New Deck"
	}

	deck := models.Deck{
		Name:   name,
		UserID: userID,
	}
	if err := s.db.WithContext(ctx).Create(&deck).Error; err != nil {
		return nil, err
	}
	return &deck, nil
}

func (s *DeckService) List(ctx context.Context, userID uint) ([]models.Deck, error) {
	var decks []models.Deck
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&decks).Error
	return decks, err
}

// get loads a deck and enforces ownership; a deck belonging to another
// user is indistinguishable from a missing one.
func (s *DeckService) get(ctx context.Context, userID, deckID uint) (*models.Deck, error) {
	var deck models.Deck
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", deckID, userID).
		First(&deck).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &deck, nil
}

// View returns the deck with its cards and inline picture.
func (s *DeckService) View(ctx context.Context, userID, deckID uint) (*models.DeckView, error) {
	deck, err := s.get(ctx, userID, deckID)
	if err != nil {
		return nil, err
	}

	var cards []models.DeckCard
	if err := s.db.WithContext(ctx).
		Preload("Card").
		Where("deck_id = ?", deckID).
		Find(&cards).Error; err != nil {
		return nil, err
	}

	picture, err := s.pictures.LoadBase64(deck.PicturePath)
	if err != nil {
		// A lost file should not make the deck unviewable.
		log.Printf("Warning: failed to load picture for deck %d: %v", deckID, err)
		picture = ""
	}

	return &models.DeckView{
		ID:        deck.ID,
		Name:      deck.Name,
		UserID:    deck.UserID,
		Picture:   picture,
		DeckCards: cards,
	}, nil
}

// Delete removes a deck and cascades its cards.
func (s *DeckService) Delete(ctx context.Context, userID, deckID uint) error {
	deck, err := s.get(ctx, userID, deckID)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("deck_id = ?", deckID).Delete(&models.DeckCard{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Deck{}, deckID).Error
	})
	if err != nil {
		return err
	}

	if err := s.pictures.Delete(deck.PicturePath); err != nil {
		log.Printf("Warning: failed to delete picture for deck %d: %v", deckID, err)
	}
	return nil
}

// AddCard puts one copy of a card into the deck, pulling the card through
// the catalog first.
func (s *DeckService) AddCard(ctx context.Context, userID, deckID uint, cardID string) (*models.Card, IncrementResult, error) {
	if _, err := s.get(ctx, userID, deckID); err != nil {
		return nil, IncrementResult{}, err
	}

	card, err := s.catalog.GetOrFetch(ctx, cardID)
	if err != nil {
		return nil, IncrementResult{}, err
	}

	result, err := s.reconciler.Increment(ctx, deckCounts, deckID, cardID, func(tx *gorm.DB) error {
		return tx.Create(&models.DeckCard{
			DeckID: deckID,
			CardID: cardID,
			Count:  1,
		}).Error
	})
	if err != nil {
		return nil, IncrementResult{}, err
	}
	return card, result, nil
}

// RemoveCard takes one copy out of the deck; the last copy deletes the
// row.
func (s *DeckService) RemoveCard(ctx context.Context, userID, deckID uint, cardID string) (DecrementResult, error) {
	if _, err := s.get(ctx, userID, deckID); err != nil {
		return DecrementResult{}, err
	}
	return s.reconciler.Decrement(ctx, deckCounts, deckID, cardID)
}

// Verify reports whether the deck meets the minimum size. Validity is
// derived from the current counts, never stored.
func (s *DeckService) Verify(ctx context.Context, userID, deckID uint) (*models.DeckValidity, error) {
	if _, err := s.get(ctx, userID, deckID); err != nil {
		return nil, err
	}

	var total int
	err := s.db.WithContext(ctx).
		Raw("SELECT COALESCE(SUM(count), 0) FROM deck_cards WHERE deck_id = ?", deckID).
		Scan(&total).Error
	if err != nil {
		return nil, err
	}

	valid := total >= models.DeckMinCards
	message := fmt.Sprintf("Deck is valid. It has at least %d cards.", models.DeckMinCards)
	if !valid {
		message = fmt.Sprintf("Deck is invalid. It must have at least %d cards.", models.DeckMinCards)
	}

	return &models.DeckValidity{
		IsValid:    valid,
		TotalCards: total,
		Message:    message,
	}, nil
}

// SearchCards filters the deck's cards by the shared collection criteria.
func (s *DeckService) SearchCards(ctx context.Context, userID, deckID uint, f CollectionFilter) ([]models.DeckCard, error) {
	if _, err := s.get(ctx, userID, deckID); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Preload("Card").
		Joins("JOIN cards ON cards.id = deck_cards.card_id").
		Where("deck_cards.deck_id = ?", deckID)
	q = applyCardFilter(q, f)

	var cards []models.DeckCard
	err := q.Find(&cards).Error
	return cards, err
}

// SetPicture stores a new deck picture, replacing any previous one.
func (s *DeckService) SetPicture(ctx context.Context, userID, deckID uint, data []byte) error {
	deck, err := s.get(ctx, userID, deckID)
	if err != nil {
		return err
	}

	filename, err := s.pictures.Save(data)
	if err != nil {
		return err
	}

	old := deck.PicturePath
	if err := s.db.WithContext(ctx).Model(&models.Deck{}).
		Where("id = ?", deckID).
		Update("picture_path", filename).Error; err != nil {
		return err
	}

	if err := s.pictures.Delete(old); err != nil {
		log.Printf("Warning: failed to delete old picture for deck %d: %v", deckID, err)
	}
	return nil
}

// RemovePicture clears the deck picture.
func (s *DeckService) RemovePicture(ctx context.Context, userID, deckID uint) error {
	deck, err := s.get(ctx, userID, deckID)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Model(&models.Deck{}).
		Where("id = ?", deckID).
		Update("picture_path", "").Error; err != nil {
		return err
	}

	if err := s.pictures.Delete(deck.PicturePath); err != nil {
		log.Printf("Warning: failed to delete picture for deck %d: %v", deckID, err)
	}
	return nil
}
