package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	portssvc "github.com/statement-sync/statement_sync_app/internal/core/ports/services"
	"github.com/statement-sync/statement_sync_app/internal/core/services"
	"github.com/statement-sync/statement_sync_app/internal/handlers"
	"github.com/statement-sync/statement_sync_app/internal/jobs"
	"github.com/statement-sync/statement_sync_app/internal/jobs/inmemory"
	"github.com/statement-sync/statement_sync_app/internal/middleware"
	"github.com/statement-sync/statement_sync_app/internal/repositories/database/pgsql"
	"github.com/statement-sync/statement_sync_app/pkg/config"
	"github.com/statement-sync/statement_sync_app/pkg/database"
)

// @title Statement Sync API
// @version 1.0
// @description Bank statement import and categorization backend.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
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

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	serviceContainer, jobQueue, jobStore := buildServices(dbPool, cfg)

	// Start the background categorization workers.
	queueCtx, queueCancel := context.WithCancel(context.Background())
	defer queueCancel()
	handler := func(ctx context.Context, job *jobs.CategorizeTransactionsJob) error {
		_, err := serviceContainer.Categorization.CategorizeTransactions(ctx, job.UserID, job.TransactionIDs, job.BatchSize)
		return err
	}
	if err := jobQueue.Start(queueCtx, handler); err != nil {
		logger.Error("Failed to start job queue", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Background categorization queue started", slog.Int("workers", cfg.JobQueueWorkers))

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, jobStore)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the job queue.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		logger.Error("Job queue shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("Server exited.")
}

// buildServices wires repositories, the job queue and the service layer.
func buildServices(dbPool *pgxpool.Pool, cfg *config.Config) (*portssvc.ServiceContainer, *inmemory.Queue, jobs.JobStore) {
	repos := pgsql.NewRepositoryProvider(dbPool)

	jobStore := inmemory.NewStore()
	jobQueue := inmemory.NewQueue(cfg.JobQueueBuffer, cfg.JobQueueWorkers, jobStore)

	categorizationSvc := services.NewCategorizationService(repos.TransactionRepo, repos.CategoryRepo, cfg.CategorizeBatchSize)
	importSvc := services.NewImportService(
		repos.TransactionRepo,
		repos.StatementRepo,
		repos.EntityMappingRepo,
		categorizationSvc,
		jobQueue,
		services.ImportConfig{
			MaxBatchesInFlight:     cfg.ImportMaxBatchInFlight,
			BackgroundCategorizeAt: cfg.BackgroundCategorizeAt,
			CategorizeBatchSize:    cfg.CategorizeBatchSize,
		},
	)

	return &portssvc.ServiceContainer{
		Import:         importSvc,
		Categorization: categorizationSvc,
		Statement:      services.NewStatementService(repos.StatementRepo),
		Category:       services.NewCategoryService(repos.CategoryRepo),
	}, jobQueue, jobStore
}

// runMigrations applies all pending up migrations using a temporary
// database/sql connection via the pgx stdlib driver.
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
