package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"copra-trade/supplier-portal/supplier-portal-backend/internal/auth"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/config"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/dashboard"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/loans"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/notifications"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/settings"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/statements"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/suppliers"
	"copra-trade/supplier-portal/supplier-portal-backend/internal/transactions"
)

func main() {
	// Local .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	// Load configuration first so the logger can follow it
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fallback, _ := zap.NewDevelopment()
		fallback.Fatal("Failed to load config", zap.Error(err))
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	// Connect to database
	dbURL := cfg.Database.GetDatabaseURL()
	logger.Info("Connecting to database",
		zap.String("host", cfg.Database.Host),
		zap.String("db_name", cfg.Database.DBName))

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// GORM shares the same connection pool
	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to initialize GORM", zap.Error(err))
	}

	// Trading parameters
	settingsRepo := settings.NewRepository(db.DB)
	settingsService := settings.NewService(settingsRepo, logger)
	settingsHandler := settings.NewHandler(settingsService, logger)

	// Purchase transactions
	txRepo := transactions.NewPostgresRepository(db)
	txService := transactions.NewService(txRepo, settingsService, logger)
	txHandler := transactions.NewHandler(txService, logger)

	// Supplier profiles
	suppliersRepo, err := suppliers.NewGormRepository(gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize supplier repository", zap.Error(err))
	}
	suppliersService := suppliers.NewService(suppliersRepo, txService, logger)
	suppliersHandler := suppliers.NewHandler(suppliersService, logger)

	// Accounts and sessions
	authService, err := auth.NewService(gormDB, suppliersService, cfg.Security.JWTSecret, cfg.Security.TokenExpiry, logger)
	if err != nil {
		logger.Fatal("Failed to initialize auth service", zap.Error(err))
	}
	authHandler := auth.NewHandler(authService, logger)

	// Loans
	loansRepo, err := loans.NewGormRepository(gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize loan repository", zap.Error(err))
	}
	loansService := loans.NewService(loansRepo, txService, settingsService, logger)
	loansHandler := loans.NewHandler(loansService, logger)

	// Notification feed
	notificationsRepo, err := notifications.NewGormRepository(gormDB)
	if err != nil {
		logger.Fatal("Failed to initialize notification repository", zap.Error(err))
	}
	notificationsService := notifications.NewService(notificationsRepo, logger)
	notificationsHandler := notifications.NewHandler(notificationsService, logger)
	loansService.SetNotifier(notificationsService)

	// Dashboard aggregates
	dashboardRepo := dashboard.NewPostgresRepository(db)
	dashboardService := dashboard.NewService(dashboardRepo, txService, logger)
	dashboardHandler := dashboard.NewHandler(dashboardService, logger)

	// Settlement collaborators come online after everything above exists
	txService.SetHooks(transactions.Hooks{
		Debitor:    loansService,
		Notifier:   notificationsService,
		Aggregates: dashboardService,
	})

	// Ledger exports and statements
	statementsService := statements.NewService(txService, suppliersService, loansService, logger)
	statementsHandler := statements.NewHandler(statementsService, logger)

	// Background refresh and overdue sweep
	scheduler := dashboard.NewScheduler(dashboardService, loansService, notificationsService, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("Failed to start dashboard scheduler", zap.Error(err))
	}
	defer scheduler.Stop()

	// Setup Router
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	auth.RegisterRoutes(router, authHandler, authService)

	api := router.Group("/api/v1", auth.RequireAuth(authService))
	{
		txHandler.RegisterRoutes(api)
		suppliersHandler.RegisterRoutes(api)
		loansHandler.RegisterRoutes(api)
		settingsHandler.RegisterRoutes(api)
		dashboardHandler.RegisterRoutes(api)
		notificationsHandler.RegisterRoutes(api)
		statementsHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen: %s\n", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown:", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func newLogger(level string) *zap.Logger {
	if level == "debug" || level == "" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
