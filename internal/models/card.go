package models

import (
	"time"
)

// Card is the locally cached copy of a Scryfall card. Scryfall stays the
// source of truth; a row is refreshed only on explicit re-fetch, so the
// legendary/land flags always match the type line captured at fetch time.
type Card struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null;index"`
	ManaCost    *string   `json:"mana_cost"`
	TypeLine    *string   `json:"type_line"`
	OracleText  *string   `json:"oracle_text"`
	PriceUSD    *string   `json:"usd"`
	PriceFoil   *string   `json:"usd_foil"`
	ImageURL    *string   `json:"image_url"`
	SetName     *string   `json:"set_name"`
	IsLegendary bool      `json:"is_legendary"`
	IsLand      bool      `json:"is_land"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CardSet is a Scryfall set, trimmed to the fields the frontend uses.
type CardSet struct {
	Code       string `json:"code"`
	Name       string `json:"name"`
	SetType    string `json:"set_type"`
	ReleasedAt string `json:"released_at"`
}

// SearchFilterOptions holds the card types and sets offered as search
// filters, fetched from Scryfall's catalog endpoints.
type SearchFilterOptions struct {
	CardTypes []string  `json:"cardTypes"`
	Sets      []CardSet `json:"sets"`
}
