package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/wekeza/sacco-engine/internal/config"
	"github.com/wekeza/sacco-engine/internal/policy"
	"github.com/wekeza/sacco-engine/internal/repository"
	"github.com/wekeza/sacco-engine/internal/service"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	uow := repository.NewSqlxUnitOfWork(db)
	repos := repository.NewRepos(db)
	policyProvider := policy.NewProvider(repos.Settings)
	notifier := service.NewRedisNotifier(redisClient, cfg.Redis.Channel, logger)
	fineService := service.NewFineService(uow, repos, policyProvider, notifier, logger)

	location, err := time.LoadLocation(cfg.Sweeper.Timezone)
	if err != nil {
		logger.Fatal("invalid sweeper timezone", zap.String("timezone", cfg.Sweeper.Timezone), zap.Error(err))
	}

	c := cron.New(cron.WithSeconds(), cron.WithLocation(location))

	_, err = c.AddFunc(cfg.Sweeper.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		created, err := fineService.LevyMissedDepositFines(ctx)
		if err != nil {
			logger.Error("deposit compliance sweep failed", zap.Error(err))
			return
		}
		logger.Info("deposit compliance sweep finished", zap.Int("fines_created", created))
	})
	if err != nil {
		logger.Fatal("failed to register sweep job", zap.String("spec", cfg.Sweeper.Spec), zap.Error(err))
	}

	c.Start()
	logger.Info("sweeper started",
		zap.String("spec", cfg.Sweeper.Spec),
		zap.String("timezone", cfg.Sweeper.Timezone),
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down sweeper")
	stopCtx := c.Stop()
	<-stopCtx.Done()
	logger.Info("sweeper exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
