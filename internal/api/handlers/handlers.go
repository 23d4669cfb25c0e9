package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/magic-inventory/server/internal/services"
)

// writeError maps the service error taxonomy onto HTTP statuses.
// Not-found conditions are normal outcomes; only unexpected failures
// fall through to a 500.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, services.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded. Please try again later."})
	case errors.Is(err, services.ErrSourceUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error fetching data from Scryfall API"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
