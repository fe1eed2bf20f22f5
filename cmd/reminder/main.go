package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/kursadbilgin/reminder-engine/internal/config"
	"github.com/kursadbilgin/reminder-engine/internal/infra/postgresql"
	"github.com/kursadbilgin/reminder-engine/internal/infra/postgresql/migrations"
	infraredis "github.com/kursadbilgin/reminder-engine/internal/infra/redis"
	"github.com/kursadbilgin/reminder-engine/internal/mailing"
	"github.com/kursadbilgin/reminder-engine/internal/observability"
	"github.com/kursadbilgin/reminder-engine/internal/provider"
	"github.com/kursadbilgin/reminder-engine/internal/repository"
	"github.com/kursadbilgin/reminder-engine/internal/service"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to initialize logger: ", err)
	}
	defer logger.Sync() //nolint:errcheck

	runID := uuid.NewString()
	ctx := observability.WithCorrelationID(context.Background(), runID)
	logger = observability.WithContextLogger(logger, ctx)

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("postgres initialization failed", zap.Error(err))
	}

	if err := migrations.Migrate(db); err != nil {
		logger.Fatal("database migrations failed", zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("postgres underlying db init failed", zap.Error(err))
	}
	defer sqlDB.Close()

	rdb, err := infraredis.NewRedis(cfg.RedisURL)
	if err != nil {
		logger.Fatal("redis initialization failed", zap.Error(err))
	}
	defer rdb.Close()

	limiter, err := infraredis.NewRedisRateLimiter(rdb, cfg.RateLimitPerSec)
	if err != nil {
		logger.Fatal("rate limiter initialization failed", zap.Error(err))
	}

	mailer, err := provider.NewResendProvider(cfg.ResendBaseURL, cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ResendFromName)
	if err != nil {
		logger.Fatal("mail provider initialization failed", zap.Error(err))
	}

	selector, err := service.NewSelector(
		repository.NewGormReminderRepo(db),
		repository.NewGormClientRepo(db),
		repository.NewGormTemplateRepo(db),
		logger,
	)
	if err != nil {
		logger.Fatal("selector initialization failed", zap.Error(err))
	}

	statuses := repository.NewGormStatusRepo(db)

	evaluator, err := service.NewSuppressionEvaluator(
		repository.NewGormSuppressionRepo(db),
		statuses,
		logger,
	)
	if err != nil {
		logger.Fatal("suppression evaluator initialization failed", zap.Error(err))
	}

	dispatcher, err := service.NewDispatcher(
		selector,
		evaluator,
		statuses,
		mailer,
		mailing.NewRenderer(),
		mailing.FieldMap,
		limiter,
		cfg.EmailBatchSize,
		logger,
	)
	if err != nil {
		logger.Fatal("dispatcher initialization failed", zap.Error(err))
	}

	metrics := observability.NewMetrics()
	dispatcher.SetMetrics(metrics)

	logger.Info("starting reminder processing")

	today := time.Now()
	successCount, errorCount := dispatcher.ProcessReminders(ctx, today)

	if err := metrics.Push(cfg.PushgatewayURL); err != nil {
		logger.Warn("failed to push metrics", zap.Error(err))
	}

	logger.Info("reminder run summary",
		zap.Int("emailsSent", successCount),
		zap.Int("errors", errorCount),
	)

	if errorCount > 0 {
		logger.Warn("completed with errors", zap.Int("errorCount", errorCount))
		return 1
	}

	logger.Info("all reminders processed successfully")
	return 0
}
