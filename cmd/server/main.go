package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"skillswap/docs" // swagger docs

	"skillswap/internal/auth"
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/db"
	"skillswap/internal/handler"
	"skillswap/internal/logger"
	"skillswap/internal/repository"
	"skillswap/internal/router"
	"skillswap/internal/service"
)

// @title Skill Swap API
// @version 1.0
// @description Skill-swap marketplace: profiles, skill search, swap requests and feedback.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "production")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}

	if cfg.ResetDB {
		log.Warn().Msg("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.Fatal().Err(err).Msg("reset database")
		}
	} else if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cacheClient.Ping(context.Background()); err != nil {
		// The cache is optional; requests fall through to the database.
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable")
	}

	repos := repository.New(gormDB)

	jwtService := auth.NewJWTServiceWithTTL(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	authenticator := auth.NewTokenAuthenticator(jwtService, tokenStore, repos.Users)

	authService := service.NewAuthService(repos.Users, jwtService, tokenStore)
	userService := service.NewUserService(repos, cacheClient)
	searchService := service.NewSearchService(repos, cfg.SearchPageSize)
	skillService := service.NewSkillService(repos, cacheClient)
	swapService := service.NewSwapService(repos)
	feedbackService := service.NewFeedbackService(repos)
	adminService := service.NewAdminService(repos, skillService, cacheClient)

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	router.Register(e, log, authenticator, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Users:    handler.NewUserHandler(userService, searchService),
		Skills:   handler.NewSkillHandler(skillService),
		Swaps:    handler.NewSwapHandler(swapService),
		Feedback: handler.NewFeedbackHandler(feedbackService),
		Admin:    handler.NewAdminHandler(adminService),
	})

	go func() {
		addr := ":" + cfg.ServerPort
		log.Info().Str("addr", addr).Str("swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html").Msg("server starting")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server start")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdown(log, e, cacheClient, gormDB.DB)
}

func shutdown(log zerolog.Logger, e *echo.Echo, cacheClient *cache.Client, sqlDB func() (*sql.DB, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down")
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	if err := cacheClient.Close(); err != nil {
		log.Error().Err(err).Msg("close redis")
	}
	if db, err := sqlDB(); err == nil {
		_ = db.Close()
	}
}
