package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"settlement-batch-backend/internal/batch"
	handler "settlement-batch-backend/internal/handlers"
	"settlement-batch-backend/internal/repository"
	"settlement-batch-backend/internal/services/settlement"
)

func RegisterRoutes(r *gin.Engine, db *gorm.DB, service *settlement.Service, runner *batch.JobRunner) {
	accountRepo := repository.NewAccountRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	errorRepo := repository.NewTransactionErrorRepository(db)

	settlementHandler := handler.NewSettlementHandler(service, runner)
	accountHandler := handler.NewAccountHandler(accountRepo)
	txHandler := handler.NewTransactionHandler(txRepo, errorRepo)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := api.Group("/v1")

	// Settlement routes
	settlements := v1.Group("/settlements")
	settlements.POST("/run", settlementHandler.Run)
	settlements.POST("/run-batch", settlementHandler.RunBatch)
	settlements.GET("", settlementHandler.ListHistory)
	settlements.GET("/date/:date", settlementHandler.HistoryByDate)
	settlements.GET("/date-range", settlementHandler.HistoryByDateRange)
	settlements.GET("/status/:status", settlementHandler.HistoryByStatus)

	// Account routes
	accounts := v1.Group("/accounts")
	accounts.GET("", accountHandler.List)
	accounts.GET("/status/:status", accountHandler.ListByStatus)
	accounts.GET("/type/:type", accountHandler.ListByType)
	accounts.GET("/:id", accountHandler.Get)
	accounts.POST("", accountHandler.Create)
	accounts.PUT("/:id", accountHandler.Update)

	// Transaction routes
	transactions := v1.Group("/transactions")
	transactions.GET("", txHandler.List)
	transactions.GET("/count", txHandler.Count)
	transactions.GET("/date-range", txHandler.ListByDateRange)
	transactions.GET("/account/:accountId", txHandler.ListByAccount)
	transactions.GET("/:id/errors", txHandler.ListErrors)
	transactions.POST("", txHandler.Create)
	transactions.POST("/batch", txHandler.CreateBatch)
}
