package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/magic-inventory/server/internal/api"
	"github.com/magic-inventory/server/internal/database"
	"github.com/magic-inventory/server/internal/services"
)

func main() {
	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./magic_inventory.db"
	}

	// Initialize database
	db, err := database.Open(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// JWT secrets
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "magic-inventory-secret-key"
		log.Println("JWT_SECRET not set, using default (do not use in production)")
	}
	refreshSecret := os.Getenv("JWT_REFRESH_SECRET")
	if refreshSecret == "" {
		refreshSecret = jwtSecret + "-refresh"
	}

	// Initialize services
	scryfallService := services.NewScryfallService()
	searchCache := services.NewSearchCache()
	searchService := services.NewSearchService(scryfallService, searchCache)
	catalogService := services.NewCatalogService(db, scryfallService)
	reconciler := services.NewReconciler(db)
	pictureStorage := services.NewPictureStorage()
	inventoryService := services.NewInventoryService(db, catalogService, reconciler)
	wishlistService := services.NewWishlistService(db, catalogService, reconciler)
	deckService := services.NewDeckService(db, catalogService, reconciler, pictureStorage)
	authService := services.NewAuthService(db, jwtSecret, refreshSecret, pictureStorage)

	// Setup router
	router := api.SetupRouter(api.Services{
		Auth:      authService,
		Search:    searchService,
		Catalog:   catalogService,
		Inventory: inventoryService,
		Wishlist:  wishlistService,
		Decks:     deckService,
		Scryfall:  scryfallService,
	})

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
