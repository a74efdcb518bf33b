package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/config"
	"github.com/nestfolio/nestfolio-backend/internal/handler"
	"github.com/nestfolio/nestfolio-backend/internal/middleware"
	"github.com/nestfolio/nestfolio-backend/internal/repository/postgres"
	"github.com/nestfolio/nestfolio-backend/internal/repository/storage"
	"github.com/nestfolio/nestfolio-backend/internal/service"
	"github.com/nestfolio/nestfolio-backend/internal/websocket"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Connect to database
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	householdRepo := postgres.NewHouseholdRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	budgetRepo := postgres.NewBudgetRepository(pool)
	goalRepo := postgres.NewGoalRepository(pool)
	investmentRepo := postgres.NewInvestmentRepository(pool)
	recurringRepo := postgres.NewRecurringRepository(pool)

	// Receipt storage is optional; without credentials uploads are disabled
	var receiptStorage storage.ReceiptRepository
	if cfg.S3.AccessKeyID != "" && cfg.S3.SecretAccessKey != "" {
		s3Repo, err := storage.NewS3ReceiptRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptStorage = s3Repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage initialized")
	} else {
		log.Warn().Msg("Receipt storage not configured, uploads disabled")
	}

	// WebSocket hub
	hub := websocket.NewHub()

	// Initialize services
	authService := service.NewAuthService(userRepo, householdRepo)
	profileService := service.NewProfileService(userRepo)
	transactionService := service.NewTransactionService(transactionRepo, hub)
	budgetService := service.NewBudgetService(budgetRepo, hub)
	goalService := service.NewGoalService(goalRepo, hub)
	investmentService := service.NewInvestmentService(investmentRepo, hub)
	recurringService := service.NewRecurringService(recurringRepo, hub)
	aggregationService := service.NewAggregationService()
	projectionService := service.NewProjectionService()
	snapshotService := service.NewSnapshotService(transactionRepo, budgetRepo, goalRepo, investmentRepo, recurringRepo, aggregationService, budgetService, goalService)
	receiptService := service.NewReceiptService(receiptStorage, transactionRepo, hub)

	// AI advisor is optional; without an API key advice returns 503
	var messageCreator service.MessageCreator
	if cfg.Advisor.Enabled {
		client := anthropic.NewClient()
		messageCreator = &client.Messages
		log.Info().Str("model", cfg.Advisor.Model).Msg("Advisor initialized")
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set, advisor disabled")
	}
	advisorService, err := service.NewAdvisorService(messageCreator, cfg.Advisor.Model, cfg.Advisor.MaxTokens)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize advisor")
	}

	// Household provider adapter for auth middleware
	householdProvider := &householdProviderAdapter{authService: authService}

	authMiddleware, err := middleware.NewAuthMiddleware(cfg.Auth0Domain, cfg.Auth0Audience, householdProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth middleware")
	}

	rateLimiter := middleware.NewRateLimiter()
	defer rateLimiter.Stop()

	// WebSocket JWT validator shares the household lookup
	wsValidator, err := websocket.NewAuth0JWTValidator(cfg.Auth0Domain, cfg.Auth0Audience, householdProvider)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create WebSocket validator")
	}

	// Initialize handlers
	handlers := &handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Profile:     handler.NewProfileHandler(profileService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Receipt:     handler.NewReceiptHandler(receiptService),
		Budget:      handler.NewBudgetHandler(budgetService),
		Goal:        handler.NewGoalHandler(goalService),
		Investment:  handler.NewInvestmentHandler(investmentService),
		Recurring:   handler.NewRecurringHandler(recurringService),
		Snapshot:    handler.NewSnapshotHandler(snapshotService),
		Projection:  handler.NewProjectionHandler(snapshotService, projectionService),
		Advice:      handler.NewAdviceHandler(snapshotService, advisorService),
		WebSocket:   handler.NewWebSocketHandler(hub, wsValidator, cfg.CORSOrigins),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, middleware.RateLimitMiddleware(rateLimiter), handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// householdProviderAdapter adapts AuthService to middleware.HouseholdProvider
// and websocket.HouseholdLookup
type householdProviderAdapter struct {
	authService *service.AuthService
}

// GetHouseholdByAuth0ID returns the household ID for an Auth0 subject
func (a *householdProviderAdapter) GetHouseholdByAuth0ID(auth0ID string) (int32, error) {
	household, err := a.authService.GetHouseholdByAuth0ID(auth0ID)
	if err != nil {
		return 0, err
	}
	return household.ID, nil
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
