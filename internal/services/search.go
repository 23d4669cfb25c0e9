package services

import (
	"context"

	"github.com/magic-inventory/server/internal/models"
)

// SearchService resolves card searches through the cache, falling back
// to Scryfall on a miss. Pagination is always served from the cache.
type SearchService struct {
	scryfall *ScryfallService
	cache    *SearchCache
}

func NewSearchService(scryfall *ScryfallService, cache *SearchCache) *SearchService {
	return &SearchService{
		scryfall: scryfall,
		cache:    cache,
	}
}

// Search canonicalizes the filters, serves from cache when possible, and
// otherwise queries Scryfall and caches the full result before paging.
// Two concurrent identical searches may both miss and both fetch; that is
// accepted duplicate work, since Put is last-writer-wins.
func (s *SearchService) Search(ctx context.Context, filters models.SearchFilters, page int) (models.CardPage, string, error) {
	query := filters.Canonical()

	if cards, ok := s.cache.Get(query); ok {
		return paginate(cards, page, models.CardsPerPage), query, nil
	}

	cards, err := s.scryfall.SearchCards(ctx, query)
	if err != nil {
		return models.CardPage{}, query, err
	}
	s.cache.Put(query, cards)

	return paginate(cards, page, models.CardsPerPage), query, nil
}

// Page serves a page of a previous search from the cache only. If the
// entry expired or never existed the caller gets ErrNotFound and must
// search again.
func (s *SearchService) Page(query string, page int) (models.CardPage, error) {
	return s.cache.Page(query, page)
}

// FilterOptions fetches the card type and set lists used to build search
// filters.
func (s *SearchService) FilterOptions(ctx context.Context) (*models.SearchFilterOptions, error) {
	cardTypes, err := s.scryfall.CardTypes(ctx)
	if err != nil {
		return nil, err
	}

	sets, err := s.scryfall.Sets(ctx)
	if err != nil {
		return nil, err
	}

	return &models.SearchFilterOptions{
		CardTypes: cardTypes,
		Sets:      sets,
	}, nil
}
