package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/allenlarson/pokemontcgtrader/internal/api"
	"github.com/allenlarson/pokemontcgtrader/internal/auth"
	"github.com/allenlarson/pokemontcgtrader/internal/config"
	"github.com/allenlarson/pokemontcgtrader/internal/database"
	"github.com/allenlarson/pokemontcgtrader/internal/metrics"
	"github.com/allenlarson/pokemontcgtrader/internal/services"
	"github.com/allenlarson/pokemontcgtrader/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	config.SetupLogging(cfg.Log)

	// Initialize database
	if err := database.Initialize(cfg.DB.Path, cfg.DB.LogLevel); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	db := database.GetDB()

	cardStore := store.NewCardStore(db)
	setStore := store.NewSetStore(db)
	profileStore := store.NewProfileStore(db)
	tradeStore := store.NewTradeStore(db)

	ctx := context.Background()
	cardCount, err := cardStore.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count cached cards: %v", err)
	}
	setCount, err := setStore.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count cached sets: %v", err)
	}
	metrics.CardCacheSize.Set(float64(cardCount))
	metrics.SetCacheSize.Set(float64(setCount))
	log.Printf("Catalog cache holds %d cards from %d sets", cardCount, setCount)

	// Initialize services
	pokemonTCG, err := services.NewPokemonTCGService(cfg.Catalog)
	if err != nil {
		log.Fatalf("Failed to initialize Pokemon TCG client: %v", err)
	}
	if cfg.Catalog.APIKey == "" {
		log.Warn("POKEMON_TCG_API_KEY is not set; catalog ingestion requests will fail")
	}

	avatarStorage, err := services.NewAvatarStorage(cfg.Storage.AvatarDir)
	if err != nil {
		log.Fatalf("Failed to initialize avatar storage: %v", err)
	}

	router := api.SetupRouter(cfg.Server, api.Dependencies{
		Search:    services.NewSearchService(cardStore, setStore),
		Ingestion: services.NewIngestionService(pokemonTCG, cardStore, setStore),
		Profiles:  services.NewProfileService(profileStore, tradeStore, avatarStorage),
		Trades:    services.NewTradeService(tradeStore),
		Avatars:   avatarStorage,
		Verifier:  auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
	})

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("Server exited")
}
