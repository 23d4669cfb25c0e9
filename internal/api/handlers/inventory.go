package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/api/middleware"
	"github.com/magic-inventory/server/internal/services"
)

type InventoryHandler struct {
	inventory *services.InventoryService
}

func NewInventoryHandler(inventory *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

func (h *InventoryHandler) GetInventory(c *gin.Context) {
	items, err := h.inventory.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": items})
}

func (h *InventoryHandler) GetSorted(c *gin.Context) {
	items, err := h.inventory.Sorted(c.Request.Context(), middleware.UserID(c), c.Query("sortBy"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inventory": items})
}

func (h *InventoryHandler) Search(c *gin.Context) {
	var filter services.CollectionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.inventory.Search(c.Request.Context(), middleware.UserID(c), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": items})
}

type updateQuantityRequest struct {
	CardID   string `json:"cardId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required"`
}

func (h *InventoryHandler) UpdateQuantity(c *gin.Context) {
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID and quantity are required"})
		return
	}

	if err := h.inventory.SetQuantity(c.Request.Context(), middleware.UserID(c), req.CardID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Card quantity updated successfully",
		"quantity": req.Quantity,
	})
}

// DecrementCard removes one copy of a card; removing the last copy
// deletes the row.
func (h *InventoryHandler) DecrementCard(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	result, err := h.inventory.Decrement(c.Request.Context(), middleware.UserID(c), req.CardID)
	if err != nil {
		writeError(c, err)
		return
	}
	if !result.Found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found in inventory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Card updated in inventory successfully",
		"deleted":   result.Deleted,
		"remaining": result.Remaining,
	})
}

// RemoveCard deletes the inventory row outright regardless of its
// quantity.
func (h *InventoryHandler) RemoveCard(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	if err := h.inventory.Remove(c.Request.Context(), middleware.UserID(c), req.CardID); err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found in inventory"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card removed from inventory successfully"})
}
