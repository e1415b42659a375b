package app

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fedejm/icecream-new-feature-test/internal/app/middleware"
	"github.com/fedejm/icecream-new-feature-test/internal/domain/services"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/config"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/repositories"
	"github.com/fedejm/icecream-new-feature-test/internal/infrastructure/storage"
	"github.com/fedejm/icecream-new-feature-test/internal/pkg/logger"
	"github.com/fedejm/icecream-new-feature-test/web"
)

// Application holds all application dependencies and services
type Application struct {
	config    *config.Config
	logger    *logger.Logger
	store     *storage.Store
	repos     *repositories.Provider
	recipes   services.RecipeService
	scaler    services.ScaleService
	batches   services.BatchService
	inventory services.InventoryService
	router    *gin.Engine
}

// New creates a new Application instance
func New(cfg *config.Config, log *logger.Logger, store *storage.Store) (*Application, error) {
	repos := repositories.NewProvider(store, cfg.Storage)

	recipeService := services.NewRecipeService(repos.Recipe, repos.Lineup)
	scaleService := services.NewScaleService(recipeService, cfg.Scaling)
	batchService := services.NewBatchService(scaleService, log)
	inventoryService := services.NewInventoryService(
		recipeService, repos.Inventory, repos.Threshold,
		repos.Exclusion, repos.Lineup, repos.Flavor, log,
	)

	app := &Application{
		config:    cfg,
		logger:    log,
		store:     store,
		repos:     repos,
		recipes:   recipeService,
		scaler:    scaleService,
		batches:   batchService,
		inventory: inventoryService,
	}

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create router
	app.router = gin.New()

	// Add middleware
	app.router.Use(middleware.RecoveryMiddleware(log.Logger))
	app.router.Use(middleware.RequestID())
	app.router.Use(middleware.LoggerMiddleware(log.Logger))
	app.router.Use(app.corsMiddleware())

	// Setup routes
	app.setupRoutes()

	return app, nil
}

// Router returns the HTTP handler
func (a *Application) Router() http.Handler {
	return a.router
}

// setupRoutes configures all application routes
func (a *Application) setupRoutes() {
	// Health check endpoints
	a.router.GET("/health", a.healthCheck)
	a.router.GET("/ready", a.readinessCheck)

	// Embedded dashboard
	a.router.StaticFS("/dashboard", http.FS(web.Static()))
	a.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/dashboard/")
	})

	// API v1 routes
	v1 := a.router.Group("/api/v1")
	{
		v1.GET("/info", a.apiInfo)

		// Recipe catalog (read-only; the document is maintained externally)
		recipes := v1.Group("/recipes")
		{
			recipes.GET("", a.listRecipes)
			recipes.GET("/:name", a.getRecipe)
			recipes.GET("/:name/weight", a.getRecipeWeight)
			recipes.POST("/:name/scale", a.scaleRecipe)
		}

		v1.GET("/ingredients", a.listIngredients)
		v1.GET("/containers", a.listContainers)

		// Batch runs (guided production walk)
		batches := v1.Group("/batches")
		{
			batches.POST("", a.startBatch)
			batches.GET("/:id", a.getBatch)
			batches.POST("/:id/next", a.batchNext)
			batches.POST("/:id/back", a.batchBack)
			batches.POST("/:id/reset", a.batchReset)
			batches.POST("/:id/restart", a.batchRestart)
		}

		// Raw-ingredient stock
		v1.GET("/inventory", a.getInventory)
		v1.PUT("/inventory", a.putInventory)
		v1.GET("/inventory/reorder", a.getReorderReport)

		v1.GET("/thresholds", a.getThresholds)
		v1.PUT("/thresholds", a.putThresholds)

		v1.GET("/exclusions", a.getExclusions)
		v1.PUT("/exclusions", a.putExclusions)

		v1.GET("/lineup", a.getLineup)
		v1.PUT("/lineup", a.putLineup)

		v1.GET("/flavors", a.getFlavors)
		v1.PUT("/flavors", a.putFlavors)
	}
}

// Middleware

func (a *Application) corsMiddleware() gin.HandlerFunc {
	allowedMethods := strings.Join(a.config.CORS.AllowedMethods, ", ")
	allowedHeaders := strings.Join(a.config.CORS.AllowedHeaders, ", ")

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", allowedMethods)
		c.Header("Access-Control-Allow-Headers", allowedHeaders)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
