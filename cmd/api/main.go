package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shiplabel/internal/api"
	"shiplabel/internal/config"
	"shiplabel/internal/modules/labels"
	"shiplabel/internal/modules/users"
	"shiplabel/pkg/easypost"
	"shiplabel/pkg/email"
	"shiplabel/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

func main() {
	// 1. --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	// 2. --- Middleware ---
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:5173", cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// 3. --- Database Connection ---
	dbConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Get().Fatal("Unable to parse database configuration", zap.Error(err))
	}

	dbPool, err := pgxpool.NewWithConfig(context.Background(), dbConfig)
	if err != nil {
		logger.Get().Fatal("Unable to create connection pool", zap.Error(err))
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		logger.Get().Fatal("Unable to ping database", zap.Error(err))
	}
	logger.Get().Info("Successfully connected to the database")

	// 4. --- External collaborators ---
	shipmentClient := easypost.NewClientWithBaseURL(cfg.EasyPostAPIKey, cfg.EasyPostBaseURL)

	templates, err := email.NewTemplateManager()
	if err != nil {
		logger.Get().Fatal("Failed to parse email templates", zap.Error(err))
	}

	var emailer email.ServiceInterface
	if cfg.EmailFrom != "" {
		sesSender, err := email.NewSESV2Sender(context.Background(), cfg.AWSRegion, cfg.EmailFrom)
		if err != nil {
			logger.Get().Fatal("Failed to initialize SES sender", zap.Error(err))
		}
		emailer = sesSender
	} else {
		logger.Get().Warn("EMAIL_FROM not set; transactional emails are disabled")
	}

	googleOAuthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	// 5. --- Dependency Injection (Wiring everything up) ---
	// --- Users Module ---
	userRepo := users.NewRepository(dbPool)
	userService := users.NewService(userRepo, emailer, templates, cfg.JWTSecret, cfg.ClientOrigin, googleOAuthConfig)
	userHandler := users.NewHandler(userService)

	// --- Labels Module ---
	labelRepo := labels.NewRepository(dbPool)
	labelService := labels.NewService(labelRepo, shipmentClient, emailer, templates, cfg.ShippingCarrier)
	labelHandler := labels.NewHandler(labelService)

	// 6. --- Initialize Router ---
	api.SetupRoutes(e, cfg.JWTSecret, userHandler, labelHandler)

	// 7. --- Start Server with graceful shutdown ---
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			logger.Get().Fatal("Server stopped unexpectedly", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Get().Fatal("Server forced to shutdown", zap.Error(err))
	}
	logger.Get().Info("Server exiting")
}
