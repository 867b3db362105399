package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gradely/gradebook-backend/internal/config"
	"github.com/gradely/gradebook-backend/internal/database"
	"github.com/gradely/gradebook-backend/internal/handler"
	"github.com/gradely/gradebook-backend/internal/logger"
	"github.com/gradely/gradebook-backend/internal/mailer"
	"github.com/gradely/gradebook-backend/internal/middleware"
	"github.com/gradely/gradebook-backend/internal/repository"
	"github.com/gradely/gradebook-backend/internal/router"
	"github.com/gradely/gradebook-backend/internal/service"
	"github.com/gradely/gradebook-backend/internal/validator"
	"github.com/gradely/gradebook-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Gradebook Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	tokenRepo := repository.NewTokenRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	resultRepo := repository.NewTestResultRepository(pool)
	enrollmentRepo := repository.NewEnrollmentRepository(pool)

	// ─── Initialize Mailer ─────────────────────────────────────────────
	// Without SMTP configured, login codes are written to the log so the
	// flow stays usable in development.
	var mail mailer.Mailer
	if cfg.SMTPHost != "" {
		mail = mailer.NewSMTPMailer(cfg)
	} else {
		log.Warn().Msg("SMTP_HOST not set, login codes will be logged instead of emailed")
		mail = mailer.NewLogMailer(log)
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, tokenRepo, enrollmentRepo, mail, log)
	userService := service.NewUserService(userRepo)
	courseService := service.NewCourseService(courseRepo)
	testService := service.NewTestService(testRepo)
	resultService := service.NewTestResultService(resultRepo)
	enrollmentService := service.NewEnrollmentService(enrollmentRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:       handler.NewAuthHandler(authService, userService),
		User:       handler.NewUserHandler(userService),
		Course:     handler.NewCourseHandler(courseService),
		Test:       handler.NewTestHandler(testService),
		TestResult: handler.NewTestResultHandler(resultService),
		Enrollment: handler.NewEnrollmentHandler(enrollmentService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	cleanupWorker := worker.NewTokenCleanupWorker(tokenRepo, cfg.TokenCleanupInterval, log)
	go cleanupWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	authLimiter := middleware.NewRateLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow, log)
	r := router.SetupRouter(authService, testService, resultService, authLimiter, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the cleanup worker.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
