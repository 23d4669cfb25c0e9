package services

import (
	"math"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/magic-inventory/server/internal/metrics"
	"github.com/magic-inventory/server/internal/models"
)

const (
	// searchCacheTTL matches Scryfall's guidance on how long search
	// results stay fresh enough to serve without re-querying.
	searchCacheTTL = 600 * time.Second

	// searchCacheSize bounds distinct cached queries; least recently
	// used entries are evicted first.
	searchCacheSize = 1024
)

// SearchCache maps a canonical query string to its ordered result list
// with a fixed TTL. An expired entry is indistinguishable from one never
// inserted, and nothing is written back after eviction. The cache is an
// explicit component handed to the search service, not package state.
type SearchCache struct {
	entries  *expirable.LRU[string, []models.Card]
	pageSize int
}

func NewSearchCache() *SearchCache {
	return newSearchCache(searchCacheTTL)
}

func newSearchCache(ttl time.Duration) *SearchCache {
	return &SearchCache{
		entries:  expirable.NewLRU[string, []models.Card](searchCacheSize, nil, ttl),
		pageSize: models.CardsPerPage,
	}
}

// Get returns the cached results for a canonical query, or a miss.
func (c *SearchCache) Get(query string) ([]models.Card, bool) {
	cards, ok := c.entries.Get(query)
	if ok {
		metrics.SearchCacheHits.Inc()
	} else {
		metrics.SearchCacheMisses.Inc()
	}
	return cards, ok
}

// Put stores results under a canonical query. Last writer wins; Put is
// idempotent for identical results, so concurrent duplicate fetches are
// harmless.
func (c *SearchCache) Put(query string, cards []models.Card) {
	c.entries.Add(query, cards)
}

// Page slices one page out of a cached result. A missing or expired
// entry is ErrNotFound: there is no prior search to continue from.
func (c *SearchCache) Page(query string, page int) (models.CardPage, error) {
	cards, ok := c.Get(query)
	if !ok || len(cards) == 0 {
		return models.CardPage{}, ErrNotFound
	}
	return paginate(cards, page, c.pageSize), nil
}

// paginate slices one page from the full result list. An out-of-range
// page yields an empty slice with correct totals rather than an error.
func paginate(cards []models.Card, page, pageSize int) models.CardPage {
	if page < 1 {
		page = 1
	}

	total := len(cards)
	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))

	start := (page - 1) * pageSize
	end := start + pageSize
	if end > total {
		end = total
	}

	items := []models.Card{}
	if start < total {
		items = cards[start:end]
	}

	return models.CardPage{
		Cards: items,
		Pagination: models.Pagination{
			TotalCards:   total,
			TotalPages:   totalPages,
			CurrentPage:  page,
			CardsPerPage: pageSize,
		},
	}
}
