package models

import (
	"time"
)

// DefaultCondition is assigned to inventory rows created without an
// explicit condition.
const DefaultCondition = "Near Mint"

// InventoryItem is one (user, card) row in a user's inventory. Quantity
// is always >= 1 while the row exists; decrementing a quantity of 1
// deletes the row instead of persisting a zero.
type InventoryItem struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_inventory_user_card"`
	CardID    string    `json:"cardId" gorm:"not null;uniqueIndex:idx_inventory_user_card"`
	Card      Card      `json:"card" gorm:"foreignKey:CardID"`
	Quantity  int       `json:"quantity" gorm:"not null;default:1"`
	Condition string    `json:"condition" gorm:"default:'Near Mint'"`
	Price     *string   `json:"price"`
	AddedAt   time.Time `json:"addedAt" gorm:"autoCreateTime"`
}

// WishlistItem is presence-only: at most one row per (user, card), never
// a count.
type WishlistItem struct {
	ID      uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID  uint      `json:"userId" gorm:"not null;uniqueIndex:idx_wishlist_user_card"`
	CardID  string    `json:"cardId" gorm:"not null;uniqueIndex:idx_wishlist_user_card"`
	Card    Card      `json:"card" gorm:"foreignKey:CardID"`
	AddedAt time.Time `json:"addedAt" gorm:"autoCreateTime"`
}

type Deck struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string    `json:"name" gorm:"not null"`
	UserID      uint      `json:"userId" gorm:"not null;index"`
	PicturePath string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// DeckCard is one (deck, card) row with a copy count. Counts move only
// by increment/decrement, never by direct assignment.
type DeckCard struct {
	ID     uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	DeckID uint   `json:"deckId" gorm:"not null;uniqueIndex:idx_deck_card"`
	CardID string `json:"cardId" gorm:"not null;uniqueIndex:idx_deck_card"`
	Card   Card   `json:"card" gorm:"foreignKey:CardID"`
	Count  int    `json:"count" gorm:"not null;default:1"`
}

// DeckMinCards is the minimum total card count for a deck to be valid.
const DeckMinCards = 5

// DeckValidity is derived from the deck's card counts, never stored.
type DeckValidity struct {
	IsValid    bool   `json:"isValid"`
	TotalCards int    `json:"totalCards"`
	Message    string `json:"message"`
}

// DeckView is a deck with its cards and base64 picture, as returned to
// clients.
type DeckView struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	UserID    uint       `json:"userId"`
	Picture   string     `json:"picture,omitempty"`
	DeckCards []DeckCard `json:"deckCards"`
}
