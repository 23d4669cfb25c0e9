package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/api/middleware"
	"github.com/magic-inventory/server/internal/services"
)

type WishlistHandler struct {
	wishlist *services.WishlistService
}

func NewWishlistHandler(wishlist *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlist: wishlist}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"wishlist": items})
}

func (h *WishlistHandler) RemoveCard(c *gin.Context) {
	var req addCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Card ID is required"})
		return
	}

	if err := h.wishlist.Remove(c.Request.Context(), middleware.UserID(c), req.CardID); err != nil {
		if err == services.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found in wishlist"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Card removed from wishlist successfully"})
}
