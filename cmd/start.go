package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"reg-manager/core/config"
	"reg-manager/core/database"
	"reg-manager/core/loader"
	"reg-manager/core/logger"
	"reg-manager/core/middleware/rayid"
	"reg-manager/core/storage"

	"reg-manager/feature/backup"
	"reg-manager/feature/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "reg-manager/docs/swagger"
)

// @title Registration Manager API
// @version 1.0
// @description API for the registration store: settings document, backup artifacts, and merges.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the registration manager server",
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

		// 3. Resolve the merge schema. A broken schema file must stop the
		// server before any merge can run against it.
		schema, err := cfg.Merge.ResolveSchema()
		if err != nil {
			logg.Fatal("Failed to resolve merge schema", zap.Error(err))
		}

		// 4. Connect to Database (Optional)
		// Without it the server still serves the artifact repository; the
		// settings feature and merge operations disable themselves.
		var db *gorm.DB
		if conn, err := database.Connect(cfg.Database); err != nil {
			logg.Warn("Optional database connection failed", zap.Error(err))
		} else {
			db = conn
			logg = logg.With(zap.String("driver", cfg.Database.Driver))
			logg.Info("Connected to registration store")
		}

		// 5. Initialize Fiber App
		// Artifacts arrive as whole request bodies, so the limit comes from
		// configuration instead of fiber's 4 MB default.
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
			BodyLimit:             cfg.Server.BodyLimitBytes(),
		})

		// 6. Initialize Storage
		store, err := storage.NewClient(cfg.Storage)
		if err != nil {
			logg.Fatal("Failed to create storage client", zap.Error(err))
		}

		// 7. Initialize Feature Loader
		mgr := loader.NewManager()

		// Register Features
		mgr.Register(backup.NewFeature(store, cfg.Storage.Bucket, logg, db, schema, cfg.Merge))
		mgr.Register(settings.NewFeature(db, logg))

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

		// 3. Swagger Documentation
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 8. Load Features
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 9. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 10. Graceful Shutdown
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
