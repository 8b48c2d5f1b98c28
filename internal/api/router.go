package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atlas-banking-core/internal/api/handler"
	"github.com/atlas-banking-core/internal/api/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	accessHandler *handler.AccessHandler,
	transactionHandler *handler.TransactionHandler,
	statementHandler *handler.StatementHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Account lifecycle and balances
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Open)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.POST("/:id/block", accountHandler.Block)
			accounts.POST("/:id/reopen", accountHandler.Reopen)
			accounts.POST("/:id/close", accountHandler.Close)
			accounts.GET("/:id/balance", accountHandler.GetBalance)

			// Per-account access control
			accounts.PUT("/:id/accesses", accessHandler.Grant)
			accounts.DELETE("/:id/accesses", accessHandler.Revoke)
			accounts.GET("/:id/accesses/:user_id", accessHandler.Find)

			accounts.GET("/:id/transactions", transactionHandler.GetByAccountID)
			accounts.GET("/:id/statement", statementHandler.GetByAccountID)
		}

		// Batch balance lookup
		v1.GET("/balances", accountHandler.GetBalances)

		// Movements and the confirm/reject workflow
		transactions := v1.Group("/transactions")
		{
			transactions.POST("/deposit", transactionHandler.Deposit)
			transactions.POST("/withdraw", transactionHandler.Withdraw)
			transactions.POST("/transfer", transactionHandler.Transfer)
			transactions.POST("/:id/confirm", transactionHandler.Confirm)
			transactions.POST("/:id/reject", transactionHandler.Reject)
			transactions.GET("/:id", transactionHandler.GetByID)
		}

		// Transfer legs by shared group id, from the core and the archive
		v1.GET("/transfers/:group_id", transactionHandler.GetByGroupID)
		v1.GET("/statements/:group_id", statementHandler.GetByGroupID)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
