package main

import (
	"log/slog"
	"os"
	"time"

	"settlement-batch-backend/internal/batch"
	"settlement-batch-backend/internal/config"
	"settlement-batch-backend/internal/logging"
	"settlement-batch-backend/internal/models"
	"settlement-batch-backend/internal/repository"
	"settlement-batch-backend/internal/routes"
	"settlement-batch-backend/internal/services/settlement"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	envErr := godotenv.Load()
	logging.Setup()
	if envErr != nil {
		slog.Info("no .env file found, relying on system env")
	}

	cfg := config.Load()
	db := config.InitDB(cfg)

	if err := db.AutoMigrate(
		&models.Account{},
		&models.Transaction{},
		&models.SettlementHistory{},
		&models.TransactionError{},
		&models.JobExecution{},
	); err != nil {
		slog.Error("migration failed", "err", err)
		os.Exit(1)
	}

	txRepo := repository.NewTransactionRepository(db)
	historyRepo := repository.NewSettlementHistoryRepository(db)

	executor := settlement.NewExecutor(db)
	guard := &settlement.RunGuard{}
	service := settlement.NewService(executor, guard, historyRepo)
	writer := batch.NewSettlementWriter(executor)
	runner := batch.NewJobRunner(db, txRepo, writer, service, guard, cfg.ChunkSize)

	scheduler := batch.NewScheduler(runner, service)
	if err := scheduler.Start(cfg.JobCron, cfg.ProcedureCron); err != nil {
		slog.Error("failed to start scheduler", "err", err)
		os.Exit(1)
	}
	defer scheduler.Stop()

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, db, service, runner)

	if err := r.Run(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
