package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/tithr-app/tithr_backend/internal/adapters/database/pgsql"
	"github.com/tithr-app/tithr_backend/internal/adapters/email/resend"
	"github.com/tithr-app/tithr_backend/internal/adapters/storage/gcs"
	"github.com/tithr-app/tithr_backend/internal/core/services"
	"github.com/tithr-app/tithr_backend/internal/handlers"
	"github.com/tithr-app/tithr_backend/internal/media"
	"github.com/tithr-app/tithr_backend/internal/middleware"
	"github.com/tithr-app/tithr_backend/internal/report"
	"github.com/tithr-app/tithr_backend/pkg/config"
	"github.com/tithr-app/tithr_backend/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Tithr Backend API
// @version 1.0
// @description Offerings submission and reporting backend.

// @host localhost:8080
// @BasePath /
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Deposit slip storage
	blobStore, err := gcs.NewBlobStore(context.Background(), cfg.StorageBucket)
	if err != nil {
		logger.Error("Failed to initialize blob store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer blobStore.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{cfg.FrontendBaseURL},
		AllowMethods:  []string{"GET", "POST"},
		AllowHeaders:  []string{"Origin", "Content-Type"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterCustomValidators(); err != nil {
		logger.Error("Failed to register custom validators", slog.String("error", err.Error()))
		os.Exit(1)
	}

	r.GET("/health", handlers.GetHealth)
	setupAPIV1Routes(r, cfg, dbPool, blobStore)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations from the migrations
// directory over a temporary database/sql connection.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

func setupAPIV1Routes(r *gin.Engine, cfg *config.Config, dbPool *pgxpool.Pool, blobStore *gcs.BlobStore) {
	v1 := r.Group("/api/v1")

	addCollectionAPI(v1, cfg, dbPool, blobStore)
	addReportAPI(v1, cfg)
}

func addCollectionAPI(v1 *gin.RouterGroup, cfg *config.Config, dbPool *pgxpool.Pool, blobStore *gcs.BlobStore) {
	repo := pgsql.NewCollectionRepository(dbPool)
	renderer := report.NewRenderer()
	submissionService := services.NewSubmissionService(repo, blobStore, renderer, cfg.StorageBaseURL)
	collectionService := services.NewCollectionService(repo, cfg.StorageBaseURL)
	exportService := services.NewExportService(repo, blobStore, renderer, cfg.StorageBaseURL)
	collectionHandler := handlers.NewCollectionHandler(submissionService, collectionService, exportService, media.NewPreprocessor())

	// The submission endpoint is the public form target; cap it per IP.
	submitLimiter := limiter.New(memory.NewStore(), submitRate(cfg.SubmitRateLimit))

	collections := v1.Group("/collections")
	{
		collections.POST("", middleware.RateLimit(submitLimiter), collectionHandler.CreateCollection)
		collections.GET("/export", collectionHandler.ExportCollections)
		collections.GET("/:collectionID", collectionHandler.GetCollection)
	}
}

func addReportAPI(v1 *gin.RouterGroup, cfg *config.Config) {
	renderer := report.NewRenderer()
	notifier := resend.NewNotifier(cfg.ResendAPIKey, cfg.ReportFrom)
	slipClient := &http.Client{Timeout: 30 * time.Second}
	dispatchService := services.NewReportDispatchService(renderer, notifier, cfg.ReportRecipient, slipClient)
	reportHandler := handlers.NewReportHandler(dispatchService)

	reports := v1.Group("/reports")
	reports.POST("/send", reportHandler.SendReport)
}

// submitRate parses the configured submission rate, falling back to the
// default when the value does not parse.
func submitRate(formatted string) limiter.Rate {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		slog.Warn("Invalid SUBMIT_RATE_LIMIT, using default",
			slog.String("value", formatted),
			slog.String("error", err.Error()))
		return limiter.Rate{Period: time.Minute, Limit: 30}
	}
	return rate
}
