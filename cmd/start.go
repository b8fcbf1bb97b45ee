package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"chefcode/core/ai"
	"chefcode/core/config"
	"chefcode/core/database"
	"chefcode/core/loader"
	"chefcode/core/logger"
	"chefcode/core/middleware/auth"
	"chefcode/core/middleware/rayid"
	"chefcode/core/storage"

	"chefcode/feature/assistant"
	"chefcode/feature/integrity"
	"chefcode/feature/inventory"
	invmodels "chefcode/feature/inventory/models"
	"chefcode/feature/invoice"
	"chefcode/feature/recipe"
	recmodels "chefcode/feature/recipe/models"
	"chefcode/feature/syncdata"
	syncmodels "chefcode/feature/syncdata/models"
	"chefcode/feature/task"
	taskmodels "chefcode/feature/task/models"
	"chefcode/feature/webrecipe"
	"chefcode/feature/webrecipe/mealdb"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "chefcode/docs/swagger"
)

// @title ChefCode API
// @version 1.0
// @description Kitchen backend API: inventory, recipes, prep tasks, snapshot sync and AI helpers.
// @host localhost:8080
// @BasePath /api

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the kitchen backend server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Connect to Database
		db, err := database.Connect(cfg.Database)
		if err != nil {
			logg.Fatal("Failed to connect to database", zap.Error(err))
		}
		if err := db.AutoMigrate(
			&invmodels.InventoryItem{},
			&recmodels.Recipe{},
			&syncmodels.SyncJournal{},
			&taskmodels.Task{},
		); err != nil {
			logg.Fatal("Failed to migrate database", zap.Error(err))
		}
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))

		// 4. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 5. Initialize AI Client
		// Constructs even without an API key; features answer with their
		// unavailable responses until one is configured.
		aiClient, err := ai.NewClient(cmd.Context(), cfg.AI)
		if err != nil {
			logg.Fatal("Failed to create AI client", zap.Error(err))
		}
		if !aiClient.Available() {
			logg.Warn("AI features disabled: no API key configured")
		}

		// 6. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		snapCache := syncdata.NewSnapshotCache(cfg.Server.SnapshotTTL())

		// Register Features. The data features invalidate the snapshot
		// cache on every write so /data never serves stale state.
		invFeature := inventory.NewFeature(db, logg, snapCache.Invalidate)
		recFeature := recipe.NewFeature(db, logg, snapCache.Invalidate)
		taskFeature := task.NewFeature(db, logg, snapCache.Invalidate)

		mgr.Register(invFeature)
		mgr.Register(recFeature)
		mgr.Register(taskFeature)
		mgr.Register(syncdata.NewFeature(db, logg, snapCache,
			invFeature.Service(), recFeature.Service(), taskFeature.Service()))
		mgr.Register(assistant.NewFeature(aiClient, logg))
		mgr.Register(webrecipe.NewFeature(db, aiClient, mealdb.NewClient(""), recFeature.Service(), logg))
		mgr.Register(invoice.NewFeature(db, store, cfg.Storage.Bucket, aiClient, logg, snapCache.Invalidate))
		mgr.Register(integrity.NewFeature(db, store, cfg.Storage.Bucket, logg))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. CORS
		app.Use(cors.New(cors.Config{
			AllowOrigins: cfg.Server.AllowOrigins,
		}))

		// 4. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 5. Health Probe (Public)
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{
				"status":       "ok",
				"ai_available": aiClient.Available(),
			})
		})

		// 6. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 7. Load Features under /api
		api := app.Group("/api")
		if err := mgr.LoadAll(api); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 8. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 9. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
