package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tourbase/docs"

	"github.com/labstack/echo/v4"

	"tourbase/internal/auth"
	"tourbase/internal/cache"
	"tourbase/internal/config"
	"tourbase/internal/db"
	apperrors "tourbase/internal/errors"
	"tourbase/internal/handler"
	"tourbase/internal/mail"
	"tourbase/internal/middleware"
	"tourbase/internal/model"
	"tourbase/internal/repository"
	"tourbase/internal/router"
	"tourbase/internal/service"
)

// @title Tourbase User & Auth API
// @version 1.0
// @description User and authentication API with JWT bearer tokens, role-based authorization, and email password reset.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		logger.Error("database init", slog.Any("error", err))
		os.Exit(1)
	}

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		logger.Error("auto-migrate", slog.Any("error", err))
		os.Exit(1)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := cacheClient.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, token revocation degraded", slog.Any("error", err))
		}
		cancel()
	}

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiresIn)
	tokenStore := auth.NewTokenStore(cacheClient)
	mailer := mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPTimeout)

	// Repositories and services
	userRepo := repository.NewUserRepository(gormDB)
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, mailer, cfg.BcryptCost)
	userService := service.NewUserService(userRepo)

	// Handlers and middleware
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	authMW := middleware.NewAuth(cfg.JWTSecret, userRepo, tokenStore)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperrors.NewHTTPErrorHandler(cfg.IsProduction(), logger)

	router.Register(e, authMW, authHandler, userHandler)

	logger.Info("starting server",
		slog.String("port", cfg.ServerPort),
		slog.String("env", cfg.AppEnv),
	)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Error("server start", slog.Any("error", err))
		os.Exit(1)
	}
}
