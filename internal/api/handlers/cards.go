package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/api/middleware"
	"github.com/magic-inventory/server/internal/models"
	"github.com/magic-inventory/server/internal/services"
)

type CardHandler struct {
	search    *services.SearchService
	catalog   *services.CatalogService
	inventory *services.InventoryService
	wishlist  *services.WishlistService
}

func NewCardHandler(search *services.SearchService, catalog *services.CatalogService, inventory *services.InventoryService, wishlist *services.WishlistService) *CardHandler {
	return &CardHandler{
		search:    search,
		catalog:   catalog,
		inventory: inventory,
		wishlist:  wishlist,
	}
}

// GetSearchFilters returns the card types and sets used to populate the
// search filter UI.
func (h *CardHandler) GetSearchFilters(c *gin.Context) {
	options, err := h.search.FilterOptions(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

// SearchCards runs a filtered card search. The canonical query string is
// echoed back so the client can page through the cached result without
// re-submitting the filters.
func (h *CardHandler) SearchCards(c *gin.Context) {
	var filters models.SearchFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page := intQuery(c, "page", 1)

	result, query, err := h.search.Search(c.Request.Context(), filters, page)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":      result.Cards,
		"pagination": result.Pagination,
		"query":      query,
	})
}

// GetPage serves one page of a previous search from the cache.
func (h *CardHandler) GetPage(c *gin.Context) {
	query := c.Query("q")
	page, err := strconv.Atoi(c.Param("page"))
	if err != nil {
		page = 1
	}

	result, err := h.search.Page(query, page)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No search results found. Please perform a search."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cards":      result.Cards,
		"pagination": result.Pagination,
	})
}

// GetCard returns a card by id, fetching it into the catalog on a miss.
func (h *CardHandler) GetCard(c *gin.Context) {
	card, err := h.catalog.GetOrFetch(c.Request.Context(), c.Param("cardId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

type addCardRequest struct {
	CardID string `json:"cardId" binding:"required"`
}

func (h *CardHandler) AddCardToInventory(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	card, result, err := h.inventory.Add(c.Request.Context(), middleware.UserID(c), req.CardID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Card added to inventory successfully",
		"card":     card,
		"isNewRow": result.IsNewRow,
	})
}

func (h *CardHandler) AddCardToWishlist(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	card, alreadyExists, err := h.wishlist.Add(c.Request.Context(), middleware.UserID(c), req.CardID)
	if err != nil {
		writeError(c, err)
		return
	}

	if alreadyExists {
		c.JSON(http.StatusOK, gin.H{
			"message":       "Card already in wishlist",
			"alreadyExists": true,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Card added to wishlist successfully",
		"card":          card,
		"alreadyExists": false,
	})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
