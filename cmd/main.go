package main

import (
	"context"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/mkaryagin/taskboard/internal/api"
	"github.com/mkaryagin/taskboard/internal/auth"
	"github.com/mkaryagin/taskboard/internal/config"
	"github.com/mkaryagin/taskboard/internal/db"
	"github.com/mkaryagin/taskboard/internal/db/migrate"
	"github.com/mkaryagin/taskboard/internal/repository"
	"github.com/mkaryagin/taskboard/internal/service"
	"github.com/mkaryagin/taskboard/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := logger.NewLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("starting application")

	auth.TokenSecretKey = cfg.TokenSecret

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err = pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	logger.Info("database connection established")

	if err = migrate.Run(context.Background(), pool); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	transactor := db.NewPgxTransactor(pool)

	teamRepo := repository.NewPgxTeamRepository(pool)
	taskRepo := repository.NewPgxTaskRepository(pool)
	userRepo := repository.NewPgxUserRepository(pool)
	activityRepo := repository.NewPgxActivityRepository(pool)

	dashboard := service.NewDashboardService(transactor).
		WithTeamRepo(teamRepo).
		WithTaskRepo(taskRepo).
		WithUserRepo(userRepo).
		WithActivityRepo(activityRepo)

	healthChecker := api.MustNewHealthChecker(health.Config{
		Name:    "postgres",
		Timeout: 2 * time.Second,
		Check: func(ctx context.Context) error {
			return pool.Ping(ctx)
		},
	})

	e := echo.New()

	handler := api.NewHandler(logger).
		WithDashboardService(dashboard).
		WithHealthChecker(healthChecker)

	handler.RegisterRoutes(e)

	logger.Info("server starting", zap.String("port", cfg.AppPort))
	if err = e.Start(":" + cfg.AppPort); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
