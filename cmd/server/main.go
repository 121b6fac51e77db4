package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sqltester/internal/api"
	"sqltester/internal/app/grading"
	"sqltester/internal/app/service"
	"sqltester/internal/common/security"
	"sqltester/internal/domain/repository"
	"sqltester/internal/platform/cache"
	"sqltester/internal/platform/config"
	"sqltester/internal/platform/database"

	"go.uber.org/zap"
)

func main() {
	// 1. Load Configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Could not build logger: %v", err)
	}
	defer logger.Sync()

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Databases: the main pool for application tables and the sandbox
	// pool where submitted queries run. Handles are passed down, never
	// stored as package state.
	mainDB, err := database.Connect(config.AppConfig.DBConnStr)
	if err != nil {
		logger.Fatal("main database unreachable", zap.Error(err))
	}
	defer mainDB.Close()
	logger.Info("main database connected", zap.String("host", config.AppConfig.DBHost))

	sandboxDB, err := database.ConnectSandbox(config.AppConfig.SandboxDBConnStr)
	if err != nil {
		logger.Fatal("sandbox database unreachable", zap.Error(err))
	}
	defer sandboxDB.Close()
	logger.Info("sandbox database connected", zap.String("host", config.AppConfig.SandboxDBHost))

	// 4. Redis (answer-key result cache)
	rdb, err := cache.Connect(config.AppConfig.RedisAddr, config.AppConfig.RedisPassword, config.AppConfig.RedisDB)
	if err != nil {
		logger.Fatal("redis unreachable", zap.Error(err))
	}
	defer rdb.Close()
	logger.Info("redis connected", zap.String("addr", config.AppConfig.RedisAddr))

	// 5. Repositories
	userRepo := repository.NewPgUserRepository(mainDB)
	assignmentRepo := repository.NewPgAssignmentRepository(mainDB)
	gradeRepo := repository.NewPgGradeRepository(mainDB)
	attemptRepo := repository.NewPgAttemptRepository(mainDB)

	// 6. Grading runner and services
	runner := grading.NewRunner(sandboxDB, config.AppConfig.QueryTimeout, config.AppConfig.MaxResultRows)
	keyCache := cache.NewKeyResultCache(rdb, config.AppConfig.KeyCacheTTL)

	authService := service.NewAuthService(userRepo)
	assignmentService := service.NewAssignmentService(assignmentRepo, keyCache, logger)
	gradingService := service.NewGradingService(assignmentRepo, gradeRepo, attemptRepo, runner, keyCache, logger)

	// 7. Router & HTTP Server
	router := api.NewRouter(authService, assignmentService, gradingService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // submissions run queries inline
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", zap.String("port", config.AppConfig.APIPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-stop // Wait for interrupt signal

	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
