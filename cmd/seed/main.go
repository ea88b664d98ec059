package main

import (
	"context"
	"flag"

	"skillswap/internal/auth"
	"skillswap/internal/cache"
	"skillswap/internal/config"
	"skillswap/internal/db"
	"skillswap/internal/logger"
	"skillswap/internal/repository"
	"skillswap/internal/seed"
	"skillswap/internal/service"
)

func main() {
	demoUsers := flag.Int("users", 0, "number of demo users to create")
	randSeed := flag.Int64("seed", 0, "random seed for demo data, 0 for random")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "production")
		bootLog.Fatal().Err(err).Msg("load config")
	}
	log := logger.New(cfg.LogLevel, cfg.Env)

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	repos := repository.New(gormDB)
	jwtService := auth.NewJWTServiceWithTTL(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	seeder := seed.New(
		service.NewAuthService(repos.Users, jwtService, auth.NewTokenStore(cacheClient)),
		service.NewUserService(repos, cacheClient),
		service.NewSkillService(repos, cacheClient),
		log,
	)

	res, err := seeder.Run(context.Background(), seed.Options{DemoUsers: *demoUsers, RandSeed: *randSeed})
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().
		Int("skills_created", res.SkillsCreated).
		Int("users_created", res.UsersCreated).
		Msg("seed completed")
}
