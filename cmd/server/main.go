package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/wekeza/sacco-engine/internal/config"
	"github.com/wekeza/sacco-engine/internal/handler"
	"github.com/wekeza/sacco-engine/internal/policy"
	"github.com/wekeza/sacco-engine/internal/repository"
	"github.com/wekeza/sacco-engine/internal/service"
	"github.com/wekeza/sacco-engine/pkg/response"
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

	if err := runMigrations(cfg); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	db, err := initDB(cfg)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	redisClient := initRedis(cfg)
	defer redisClient.Close()

	uow := repository.NewSqlxUnitOfWork(db)
	repos := repository.NewRepos(db)
	policyProvider := policy.NewProvider(repos.Settings)
	notifier := service.NewRedisNotifier(redisClient, cfg.Redis.Channel, logger)

	loanService := service.NewLoanService(uow, repos, policyProvider, notifier, logger)
	tallyService := service.NewTallyService(uow, repos)
	fineService := service.NewFineService(uow, repos, policyProvider, notifier, logger)
	treasuryService := service.NewTreasuryService(repos)

	loanHandler := handler.NewLoanHandler(loanService, tallyService)
	fineHandler := handler.NewFineHandler(fineService)
	treasuryHandler := handler.NewTreasuryHandler(treasuryService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	router := setupRoutes(loanHandler, fineHandler, treasuryHandler, healthHandler)

	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func runMigrations(cfg *config.Config) error {
	m, err := migrate.New(cfg.Database.MigrationsPath, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(
	loanHandler *handler.LoanHandler,
	fineHandler *handler.FineHandler,
	treasuryHandler *handler.TreasuryHandler,
	healthHandler *handler.HealthHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware)

	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans", loanHandler.StartApplication).Methods("POST")
	api.HandleFunc("/loans/{loanId}", loanHandler.GetStatus).Methods("GET")
	api.HandleFunc("/loans/{loanId}/details", loanHandler.SubmitDetails).Methods("POST")
	api.HandleFunc("/loans/{loanId}/finalize", loanHandler.Finalize).Methods("POST")
	api.HandleFunc("/loans/{loanId}/verify", loanHandler.Verify).Methods("POST")
	api.HandleFunc("/loans/{loanId}/table", loanHandler.TableMotion).Methods("POST")
	api.HandleFunc("/loans/{loanId}/open-voting", loanHandler.OpenVoting).Methods("POST")
	api.HandleFunc("/loans/{loanId}/decision", loanHandler.Decide).Methods("POST")
	api.HandleFunc("/loans/{loanId}/disburse", loanHandler.Disburse).Methods("POST")
	api.HandleFunc("/loans/{loanId}/repayments", loanHandler.RecordRepayment).Methods("POST")
	api.HandleFunc("/loans/{loanId}/guarantors", loanHandler.AddGuarantor).Methods("POST")
	api.HandleFunc("/loans/{loanId}/votes", loanHandler.CastVote).Methods("POST")
	api.HandleFunc("/loans/{loanId}/tally", loanHandler.Tally).Methods("GET")
	api.HandleFunc("/guarantor-requests/{requestId}/response", loanHandler.RespondGuarantor).Methods("POST")
	api.HandleFunc("/members/{memberId}/fines", fineHandler.ListMemberFines).Methods("GET")
	api.HandleFunc("/treasury", treasuryHandler.Snapshot).Methods("GET")

	return router
}
