package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
)

// Handlers bundles everything RegisterRoutes wires up
type Handlers struct {
	Auth        *AuthHandler
	Profile     *ProfileHandler
	Transaction *TransactionHandler
	Receipt     *ReceiptHandler
	Budget      *BudgetHandler
	Goal        *GoalHandler
	Investment  *InvestmentHandler
	Recurring   *RecurringHandler
	Snapshot    *SnapshotHandler
	Projection  *ProjectionHandler
	Advice      *AdviceHandler
	WebSocket   *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter echo.MiddlewareFunc, h *Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Auth routes (protected)
	auth := api.Group("/auth")
	auth.Use(authMiddleware.Authenticate())
	auth.POST("/callback", h.Auth.Callback)
	auth.GET("/me", h.Auth.Me)
	auth.POST("/logout", h.Auth.Logout)

	// Profile routes (protected)
	profile := api.Group("/profile")
	profile.Use(authMiddleware.Authenticate())
	profile.GET("", h.Profile.GetProfile)
	profile.PUT("", h.Profile.UpdateProfile)

	// Transaction routes (protected)
	transactions := api.Group("/transactions")
	transactions.Use(authMiddleware.Authenticate(), rateLimiter)
	transactions.POST("", h.Transaction.CreateTransaction)
	transactions.GET("", h.Transaction.GetTransactions)
	transactions.GET("/:id", h.Transaction.GetTransaction)
	transactions.PUT("/:id", h.Transaction.UpdateTransaction)
	transactions.DELETE("/:id", h.Transaction.DeleteTransaction)
	transactions.POST("/:id/receipt", h.Receipt.UploadReceipt)
	transactions.GET("/:id/receipt", h.Receipt.GetReceiptURLs)
	transactions.DELETE("/:id/receipt", h.Receipt.DeleteReceipt)

	// Budget routes (protected)
	budgets := api.Group("/budgets")
	budgets.Use(authMiddleware.Authenticate(), rateLimiter)
	budgets.POST("", h.Budget.CreateBudget)
	budgets.GET("", h.Budget.GetBudgets)
	budgets.PUT("/:id", h.Budget.UpdateBudget)
	budgets.DELETE("/:id", h.Budget.DeleteBudget)

	// Goal routes (protected)
	goals := api.Group("/goals")
	goals.Use(authMiddleware.Authenticate(), rateLimiter)
	goals.POST("", h.Goal.CreateGoal)
	goals.GET("", h.Goal.GetGoals)
	goals.GET("/:id/analysis", h.Goal.GetGoalAnalysis)
	goals.PUT("/:id", h.Goal.UpdateGoal)
	goals.DELETE("/:id", h.Goal.DeleteGoal)

	// Investment routes (protected)
	investments := api.Group("/investments")
	investments.Use(authMiddleware.Authenticate(), rateLimiter)
	investments.POST("", h.Investment.CreateInvestment)
	investments.GET("", h.Investment.GetInvestments)
	investments.PUT("/:id", h.Investment.UpdateInvestment)
	investments.DELETE("/:id", h.Investment.DeleteInvestment)

	// Recurring obligation routes (protected)
	recurring := api.Group("/recurring")
	recurring.Use(authMiddleware.Authenticate(), rateLimiter)
	recurring.POST("", h.Recurring.CreateRecurring)
	recurring.GET("", h.Recurring.GetRecurring)
	recurring.PUT("/:id", h.Recurring.UpdateRecurring)
	recurring.DELETE("/:id", h.Recurring.DeleteRecurring)

	// Snapshot routes (protected)
	snapshots := api.Group("/snapshots")
	snapshots.Use(authMiddleware.Authenticate(), rateLimiter)
	snapshots.GET("/current", h.Snapshot.GetCurrent)
	snapshots.GET("/:year/:month", h.Snapshot.GetByYearMonth)

	// Projection routes (protected)
	projections := api.Group("/projections")
	projections.Use(authMiddleware.Authenticate(), rateLimiter)
	projections.POST("", h.Projection.Project)

	// Advice routes (protected)
	advice := api.Group("/advice")
	advice.Use(authMiddleware.Authenticate(), rateLimiter)
	advice.GET("", h.Advice.GetAdvice)

	// WebSocket endpoint authenticates via query token, not middleware
	if h.WebSocket != nil {
		e.GET("/ws", h.WebSocket.HandleWS)
	}
}
