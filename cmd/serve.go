package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	config "task-manager.com/task-manager/internal/configs"
	httpapi "task-manager.com/task-manager/internal/http"
	"task-manager.com/task-manager/internal/limiter"
	repository "task-manager.com/task-manager/internal/repositories"
	"task-manager.com/task-manager/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the task manager HTTP API and the browser console at /ui/",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger := config.NewLogger(cfg.LogLevel)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		taskRepo, err := openTaskRepository(ctx, cfg, logger)
		if err != nil {
			return err
		}

		rateLimiter, closeLimiter, err := openLimiter(cfg, logger)
		if err != nil {
			_ = taskRepo.Close(context.Background())
			return err
		}

		taskService := services.NewTaskService(taskRepo)
		e := httpapi.NewServer(httpapi.NewHandler(taskService), rateLimiter, logger)

		go func() {
			logger.Info("HTTP server listening", slog.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped", slog.String("error", err.Error()))
				stop()
			}
		}()

		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", slog.String("error", err.Error()))
		}
		closeLimiter()
		if err := taskRepo.Close(shutdownCtx); err != nil {
			logger.Error("failed to close task store", slog.String("error", err.Error()))
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func openTaskRepository(ctx context.Context, cfg config.Config, logger *slog.Logger) (repository.TaskRepository, error) {
	store := cfg.Store()
	logger.Info("opening task store", slog.String("store", string(store)))

	switch store {
	case config.StoreMongo:
		client, err := config.NewMongoClient(ctx, cfg.MongoURI)
		if err != nil {
			return nil, err
		}
		database := config.MongoDatabase(cfg.MongoURI, cfg.MongoDatabase)
		logger.Info("connected to MongoDB", slog.String("database", database))
		return repository.NewMongoTaskRepository(client, database), nil

	case config.StoreNeo4j:
		driver, err := config.NewNeo4jDriver(ctx, cfg.Neo4jURI, cfg.Neo4jUser, cfg.Neo4jPassword)
		if err != nil {
			return nil, err
		}
		return repository.NewNeo4jTaskRepository(driver, cfg.Neo4jDatabase), nil

	case config.StoreSQLite:
		db, err := config.NewDatabaseClient(cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return repository.NewGormTaskRepository(db), nil

	default:
		return repository.NewMemoryTaskRepository(), nil
	}
}

func openLimiter(cfg config.Config, logger *slog.Logger) (limiter.Limiter, func(), error) {
	if cfg.RateLimit == 0 {
		logger.Info("rate limiting disabled")
		return nil, func() {}, nil
	}

	if cfg.RedisAddr == "" {
		return limiter.NewMemoryLimiter(cfg.RateLimit, time.Minute), func() {}, nil
	}

	redisClient, err := config.NewRedisClient(cfg.RedisAddr)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("rate limiting through redis", slog.String("addr", cfg.RedisAddr))

	l := limiter.NewRedisLimiter(redisClient, cfg.RedisRateLimitKey, cfg.RateLimit, time.Minute)
	return l, redisClient.Close, nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
