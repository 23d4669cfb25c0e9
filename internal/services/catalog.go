package services

import (
	"context"
	"errors"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/magic-inventory/server/internal/metrics"
	"github.com/magic-inventory/server/internal/models"
)

// CatalogService is the persistent card catalog plus the shared
// lookup-or-fetch path every entry point that needs a Card by id goes
// through: check the catalog, on a miss fetch from Scryfall, upsert, and
// return.
type CatalogService struct {
	db       *gorm.DB
	scryfall *ScryfallService
}

func NewCatalogService(db *gorm.DB, scryfall *ScryfallService) *CatalogService {
	return &CatalogService{
		db:       db,
		scryfall: scryfall,
	}
}

// GetOrFetch returns the catalog row for a card id, fetching and caching
// it from Scryfall on a miss. Any adapter failure during the fallback is
// surfaced as ErrCardNotFound: the missing catalog row is recoverable on
// the next request, so callers see a uniform not-found condition instead
// of the adapter's raw error.
func (s *CatalogService) GetOrFetch(ctx context.Context, cardID string) (*models.Card, error) {
	var card models.Card
	err := s.db.WithContext(ctx).First(&card, "id = ?", cardID).Error
	if err == nil {
		return &card, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	fetched, err := s.scryfall.GetCard(ctx, cardID)
	if err != nil {
		return nil, ErrCardNotFound
	}

	if err := s.Upsert(ctx, fetched); err != nil {
		// The card is usable even if caching it failed.
		log.Printf("Warning: failed to cache card %s: %v", fetched.ID, err)
	}
	return fetched, nil
}

// Upsert inserts or refreshes a catalog row, keyed by card id. Idempotent.
func (s *CatalogService) Upsert(ctx context.Context, card *models.Card) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(card).Error
	if err != nil {
		return err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Card{}).Count(&count).Error; err == nil {
		metrics.CardCatalogSize.Set(float64(count))
	}
	return nil
}

// FetchMany resolves a set of card ids, serving catalog hits locally and
// batching the misses through Scryfall's collection endpoint. Ids the
// source does not know are absent from the result, not an error.
func (s *CatalogService) FetchMany(ctx context.Context, ids []string) (map[string]models.Card, error) {
	result := make(map[string]models.Card, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var cached []models.Card
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&cached).Error; err != nil {
		return nil, err
	}
	for _, c := range cached {
		result[c.ID] = c
	}

	var missing []string
	for _, id := range ids {
		if _, ok := result[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := s.scryfall.FetchCollection(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, card := range fetched {
		card := card
		if err := s.Upsert(ctx, &card); err != nil {
			log.Printf("Warning: failed to cache card %s: %v", id, err)
		}
		result[id] = card
	}

	return result, nil
}
