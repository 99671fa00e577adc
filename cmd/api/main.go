package main

import (
	"time"

	"github.com/gin-gonic/gin"

	"catalogforge/internal/cache"
	"catalogforge/internal/config"
	"catalogforge/internal/database"
	"catalogforge/internal/export"
	"catalogforge/internal/handlers"
	"catalogforge/internal/listing"
	"catalogforge/internal/logger"
	"catalogforge/internal/routes"
	"catalogforge/internal/store"
)

func main() {
	cfg := config.Load()
	log := logger.New("catalogforge", cfg.LogLevel)

	client := database.Connect(cfg.MongoURI)
	db := client.Database(cfg.MongoDB)

	st := store.NewMongo(db)
	categoryCache := cache.New(5 * time.Minute)
	fetcher := &listing.Fetcher{Client: st, Categories: categoryCache}

	exporter := &export.Exporter{
		Images:   export.NewImageFetcher(cfg.ImageTimeout),
		Renderer: export.Renderer{CurrencySymbol: cfg.CurrencySymbol},
	}

	router := gin.Default()
	routes.RegisterRoutes(router,
		handlers.NewProductHandler(st, fetcher, log, cfg.PageSize),
		handlers.NewCategoryHandler(st, fetcher, categoryCache, log),
		handlers.NewCatalogHandler(fetcher, exporter, log),
	)

	log.Info("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error("server stopped", "error", err)
	}
}
