package models

import (
	"strings"
)

// CardsPerPage is the fixed page size for search result pagination.
const CardsPerPage = 12

// SearchFilters are the card search parameters accepted from clients.
type SearchFilters struct {
	Query     string   `form:"query"`
	Type      string   `form:"type"`
	Set       string   `form:"set"`
	Color     string   `form:"color"`
	Rarity    []string `form:"rarity"`
	Legendary bool     `form:"isLegendary"`
	Land      bool     `form:"isLand"`
}

// Canonical serializes the filters into Scryfall query syntax in a fixed
// order. The result is both the upstream search query and the cache key,
// so identical filters always canonicalize to the same string.
func (f SearchFilters) Canonical() string {
	var b strings.Builder

	if q := strings.TrimSpace(f.Query); q != "" {
		b.WriteString(q)
	}
	if f.Type != "" {
		b.WriteString("+t:" + f.Type)
	}
	if f.Set != "" {
		b.WriteString("+e:" + f.Set)
	}
	if f.Color != "" {
		b.WriteString("+c:" + f.Color)
	}

	switch {
	case len(f.Rarity) == 1:
		b.WriteString("+r:" + f.Rarity[0])
	case len(f.Rarity) > 1:
		b.WriteString("+(")
		for i, r := range f.Rarity {
			if i > 0 {
				b.WriteString("+or+")
			}
			b.WriteString("r:" + r)
		}
		b.WriteString(")")
	}

	if f.Legendary {
		b.WriteString("+t:legendary")
	}
	if f.Land {
		// Scryfall's id: operator restricts lands to a color identity.
		if f.Color != "" {
			b.WriteString("+id:" + f.Color)
		}
		b.WriteString("+t:land")
	}

	return b.String()
}

// Pagination describes one page of a cached search result.
type Pagination struct {
	TotalCards   int `json:"totalCards"`
	TotalPages   int `json:"totalPages"`
	CurrentPage  int `json:"currentPage"`
	CardsPerPage int `json:"cardsPerPage"`
}

// CardPage is one page of search results plus its pagination metadata.
type CardPage struct {
	Cards      []Card     `json:"cards"`
	Pagination Pagination `json:"pagination"`
}
