package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	analyticsapi "github.com/miboks/miboks-server/internal/analytics/api"
	analyticsrepo "github.com/miboks/miboks-server/internal/analytics/repository"
	analyticsservice "github.com/miboks/miboks-server/internal/analytics/service"
	authapi "github.com/miboks/miboks-server/internal/auth/api"
	authrepo "github.com/miboks/miboks-server/internal/auth/repository"
	authservice "github.com/miboks/miboks-server/internal/auth/service"
	catalogapi "github.com/miboks/miboks-server/internal/catalog/api"
	catalogrepo "github.com/miboks/miboks-server/internal/catalog/repository"
	catalogservice "github.com/miboks/miboks-server/internal/catalog/service"
	checkoutapi "github.com/miboks/miboks-server/internal/checkout/api"
	checkoutrepo "github.com/miboks/miboks-server/internal/checkout/repository"
	checkoutservice "github.com/miboks/miboks-server/internal/checkout/service"
	"github.com/miboks/miboks-server/internal/platform/config"
	"github.com/miboks/miboks-server/internal/platform/database"
	"github.com/miboks/miboks-server/internal/platform/events"
	"github.com/miboks/miboks-server/internal/platform/logger"
	"github.com/miboks/miboks-server/internal/platform/storage"
	settingsapi "github.com/miboks/miboks-server/internal/settings/api"
	settingsrepo "github.com/miboks/miboks-server/internal/settings/repository"
	settingsservice "github.com/miboks/miboks-server/internal/settings/service"
	suppliersapi "github.com/miboks/miboks-server/internal/suppliers/api"
	suppliersrepo "github.com/miboks/miboks-server/internal/suppliers/repository"
	suppliersservice "github.com/miboks/miboks-server/internal/suppliers/service"
)

func main() {
	_ = godotenv.Load()
	defer logger.Sync()

	dbCfg := config.LoadDBConfig()
	serverCfg := config.LoadServerConfig("8080")
	authCfg := config.LoadAuthConfig()
	checkoutCfg := config.LoadCheckoutConfig()
	storageCfg := config.LoadStorageConfig()

	logger.Info("Starting Mi-Boks server...")

	db, err := database.Connect(dbCfg.DSN)
	if err != nil {
		logger.Error("Failed to connect to database", err)
		return
	}
	defer db.Close()

	hub := events.NewHub()
	objects := storage.NewLocalStorage(storageCfg.BaseDir, storageCfg.BaseURL)

	settingsRepository := settingsrepo.NewPostgresSettingsRepository(db)
	settingsService := settingsservice.NewSettingsService(settingsRepository, objects, hub)

	vendorRepository := authrepo.NewPostgresVendorRepository(db.DB)
	authService := authservice.NewAuthService(vendorRepository, settingsService, authCfg)

	catalogRepository := catalogrepo.NewPostgresCatalogRepository(db.DB)
	catalogService := catalogservice.NewCatalogService(catalogRepository, objects, hub)

	saleRepository := checkoutrepo.NewPostgresSaleRepository(db.DB)
	checkoutService := checkoutservice.NewCheckoutService(saleRepository, catalogRepository, hub, checkoutCfg)
	defer checkoutService.Stop()

	analyticsRepository := analyticsrepo.NewPostgresAnalyticsRepository(db)
	analyticsService := analyticsservice.NewAnalyticsService(analyticsRepository)

	supplierRepository := suppliersrepo.NewPostgresSupplierRepository(db.DB)
	supplierService := suppliersservice.NewSupplierService(supplierRepository, hub)

	authHandler := authapi.NewAuthHandler(authService)
	catalogHandler := catalogapi.NewCatalogHandler(catalogService)
	checkoutHandler := checkoutapi.NewCheckoutHandler(checkoutService)
	analyticsHandler := analyticsapi.NewAnalyticsHandler(analyticsService)
	settingsHandler := settingsapi.NewSettingsHandler(settingsService)
	supplierHandler := suppliersapi.NewSupplierHandler(supplierService)

	router := gin.Default()
	router.Static("/uploads", storageCfg.BaseDir)

	apiV1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("")
	protected.Use(authapi.RequireAuth(authService))
	catalogHandler.RegisterRoutes(protected)
	checkoutHandler.RegisterRoutes(protected)
	analyticsHandler.RegisterRoutes(protected)
	settingsHandler.RegisterRoutes(protected)
	supplierHandler.RegisterRoutes(protected)
	protected.GET("/events", events.SSEHandler(hub))

	logger.Info("Mi-Boks server running on port " + serverCfg.Port)
	if errSrv := router.Run(serverCfg.Port); errSrv != nil {
		logger.Error("Failed to run server", errSrv)
	}
}
