package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magic-inventory/server/internal/api/handlers"
	"github.com/magic-inventory/server/internal/api/middleware"
	"github.com/magic-inventory/server/internal/services"
)

// Services carries everything the HTTP layer depends on.
type Services struct {
	Auth      *services.AuthService
	Search    *services.SearchService
	Catalog   *services.CatalogService
	Inventory *services.InventoryService
	Wishlist  *services.WishlistService
	Decks     *services.DeckService
	Scryfall  *services.ScryfallService
}

func SetupRouter(svc Services) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	router.Use(middleware.Metrics())

	// Initialize handlers
	userHandler := handlers.NewUserHandler(svc.Auth)
	cardHandler := handlers.NewCardHandler(svc.Search, svc.Catalog, svc.Inventory, svc.Wishlist)
	inventoryHandler := handlers.NewInventoryHandler(svc.Inventory)
	wishlistHandler := handlers.NewWishlistHandler(svc.Wishlist)
	deckHandler := handlers.NewDeckHandler(svc.Decks)

	authRequired := middleware.RequireAuth(svc.Auth)

	// API routes
	api := router.Group("/api")
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", userHandler.Register)
			users.POST("/login", userHandler.Login)
			users.POST("/refresh", userHandler.Refresh)
			users.POST("/logout", authRequired, userHandler.Logout)
			users.GET("/profile", authRequired, userHandler.Profile)
			users.PUT("/photo", authRequired, userHandler.UpdatePhoto)
			users.DELETE("/photo", authRequired, userHandler.RemovePhoto)
		}

		// Card search and catalog routes
		cards := api.Group("/cards")
		{
			cards.GET("/search/filters", cardHandler.GetSearchFilters)
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/search/page/:page", cardHandler.GetPage)
			cards.GET("/:cardId", cardHandler.GetCard)
			cards.POST("/inventory", authRequired, cardHandler.AddCardToInventory)
			cards.POST("/wishlist", authRequired, cardHandler.AddCardToWishlist)
		}

		// Inventory routes
		inventory := api.Group("/inventory", authRequired)
		{
			inventory.GET("", inventoryHandler.GetInventory)
			inventory.GET("/sorted", inventoryHandler.GetSorted)
			inventory.GET("/search", inventoryHandler.Search)
			inventory.PUT("/quantity", inventoryHandler.UpdateQuantity)
			inventory.POST("/decrement", inventoryHandler.DecrementCard)
			inventory.DELETE("/card", inventoryHandler.RemoveCard)
		}

		// Wishlist routes
		wishlist := api.Group("/wishlist", authRequired)
		{
			wishlist.GET("", wishlistHandler.GetWishlist)
			wishlist.DELETE("/card", wishlistHandler.RemoveCard)
		}

		// Deck routes
		decks := api.Group("/decks", authRequired)
		{
			decks.POST("", deckHandler.CreateDeck)
			decks.GET("", deckHandler.ListDecks)
			decks.GET("/:deckId", deckHandler.ViewDeck)
			decks.DELETE("/:deckId", deckHandler.DeleteDeck)
			decks.POST("/:deckId/cards", deckHandler.AddCard)
			decks.DELETE("/:deckId/cards", deckHandler.RemoveCard)
			decks.GET("/:deckId/verify", deckHandler.VerifyDeck)
			decks.GET("/:deckId/search", deckHandler.SearchDeck)
			decks.PUT("/:deckId/picture", deckHandler.UploadPicture)
			decks.DELETE("/:deckId/picture", deckHandler.RemovePicture)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
