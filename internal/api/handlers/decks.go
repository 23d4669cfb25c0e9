package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/api/middleware"
	"github.com/magic-inventory/server/internal/services"
)

type DeckHandler struct {
	decks *services.DeckService
}

func NewDeckHandler(decks *services.DeckService) *DeckHandler {
	return &DeckHandler{decks: decks}
}

func (h *DeckHandler) CreateDeck(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	// Body is optional; an empty or missing name falls back to the default.
	_ = c.ShouldBindJSON(&req)

	deck, err := h.decks.Create(c.Request.Context(), middleware.UserID(c), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Deck created successfully",
		"deck":    deck,
	})
}

func (h *DeckHandler) ListDecks(c *gin.Context) {
	decks, err := h.decks.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"decks": decks})
}

func (h *DeckHandler) ViewDeck(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	view, err := h.decks.View(c.Request.Context(), middleware.UserID(c), deckID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deck": view})
}

func (h *DeckHandler) DeleteDeck(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	if err := h.decks.Delete(c.Request.Context(), middleware.UserID(c), deckID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deck deleted successfully"})
}

func (h *DeckHandler) AddCard(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	card, result, err := h.decks.AddCard(c.Request.Context(), middleware.UserID(c), deckID, req.CardID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Card added to deck successfully",
		"card":          card,
		"isNewAddition": result.IsNewRow,
	})
}

func (h *DeckHandler) RemoveCard(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	result, err := h.decks.RemoveCard(c.Request.Context(), middleware.UserID(c), deckID, req.CardID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	if !result.Found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found in deck"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           "Card updated in deck successfully",
		"completelyRemoved": result.Deleted,
		"remaining":         result.Remaining,
	})
}

func (h *DeckHandler) VerifyDeck(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	validity, err := h.decks.Verify(c.Request.Context(), middleware.UserID(c), deckID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, validity)
}

func (h *DeckHandler) SearchDeck(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	var filter services.CollectionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cards, err := h.decks.SearchCards(c.Request.Context(), middleware.UserID(c), deckID, filter)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deckCards": cards})
}

func (h *DeckHandler) UploadPicture(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	data, ok := readUpload(c, "picture")
	if !ok {
		return
	}

	if err := h.decks.SetPicture(c.Request.Context(), middleware.UserID(c), deckID, data); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deck picture uploaded successfully"})
}

func (h *DeckHandler) RemovePicture(c *gin.Context) {
	deckID, ok := deckParam(c)
	if !ok {
		return
	}

	if err := h.decks.RemovePicture(c.Request.Context(), middleware.UserID(c), deckID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Deck not found"})
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deck picture removed successfully"})
}

func deckParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("deckId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deck id"})
		return 0, false
	}
	return uint(id), true
}
