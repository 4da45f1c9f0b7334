package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/allenlarson/pokemontcgtrader/internal/api/handlers"
	"github.com/allenlarson/pokemontcgtrader/internal/auth"
	"github.com/allenlarson/pokemontcgtrader/internal/config"
	"github.com/allenlarson/pokemontcgtrader/internal/metrics"
	"github.com/allenlarson/pokemontcgtrader/internal/services"
)

const requestIDHeader = "X-Request-ID"

// Dependencies are the services the HTTP API is built on.
type Dependencies struct {
	Search    *services.SearchService
	Ingestion *services.IngestionService
	Profiles  *services.ProfileService
	Trades    *services.TradeService
	Avatars   *services.AvatarStorage
	Verifier  *auth.Verifier
}

func SetupRouter(cfg config.ServerConfig, deps Dependencies) *gin.Engine {
	router := gin.Default()
	router.Use(requestID(), metrics.GinMiddleware())

	serveFrontend := cfg.FrontendDistPath != "" && dirExists(cfg.FrontendDistPath)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	corsConfig.ExposeHeaders = []string{requestIDHeader}
	corsConfig.AllowCredentials = false
	router.Use(cors.New(corsConfig))

	cardHandler := handlers.NewCardHandler(deps.Search)
	catalogHandler := handlers.NewCatalogHandler(deps.Ingestion)
	profileHandler := handlers.NewProfileHandler(deps.Profiles)
	tradeHandler := handlers.NewTradeHandler(deps.Trades)

	// Serve uploaded avatars
	if deps.Avatars != nil {
		router.Static(strings.TrimSuffix(services.AvatarURLPrefix, "/"), deps.Avatars.Dir())
	}

	requireAuth := deps.Verifier.Middleware()

	api := router.Group("/api")
	{
		// Catalog reads, served from the local cache
		cards := api.Group("/cards")
		{
			cards.GET("/search", cardHandler.SearchCards)
			cards.GET("/suggest", cardHandler.SuggestNames)
			cards.GET("/:id", cardHandler.GetCard)
		}
		api.GET("/sets", cardHandler.ListSets)

		// Ingestion from the Pokemon TCG API
		catalog := api.Group("/catalog", requireAuth)
		{
			catalog.POST("/cards", catalogHandler.FetchCards)
			catalog.POST("/sets/refresh", catalogHandler.RefreshSets)
			catalog.POST("/sets/refresh-recent", catalogHandler.RefreshRecentSets)
			catalog.POST("/sets/:id/sweep", catalogHandler.SweepSet)
		}

		// Profiles
		api.GET("/profiles/available", profileHandler.CheckUsername)
		api.GET("/trade/:username", profileHandler.GetTradePage)
		profile := api.Group("/profile", requireAuth)
		{
			profile.GET("", profileHandler.GetMyProfile)
			profile.POST("", profileHandler.CreateProfile)
			profile.PUT("", profileHandler.UpdateProfile)
			profile.PUT("/avatar", profileHandler.UploadAvatar)
		}

		// Trade lists
		api.GET("/trade-options", tradeHandler.ListOptions)
		tradeable := api.Group("/tradeable", requireAuth)
		{
			tradeable.GET("", tradeHandler.ListTradeable)
			tradeable.POST("", tradeHandler.AddTradeable)
			tradeable.DELETE("/:cardId", tradeHandler.RemoveTradeable)
		}
		wants := api.Group("/wants", requireAuth)
		{
			wants.GET("", tradeHandler.ListWants)
			wants.POST("", tradeHandler.AddWant)
			wants.DELETE("/:cardId", tradeHandler.RemoveWant)
		}
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		frontendPath := cfg.FrontendDistPath
		indexPath := filepath.Join(frontendPath, "index.html")

		router.Static("/assets", filepath.Join(frontendPath, "assets"))
		router.StaticFile("/vite.svg", filepath.Join(frontendPath, "vite.svg"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	}

	return router
}

// requestID tags every request so log lines and client reports can be matched.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
