package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appsvc "devbench/internal/app"
	"devbench/internal/cache"
	"devbench/internal/config"
	"devbench/internal/content"
	"devbench/internal/model"
	"devbench/internal/pkg/logger"
	mysqlClient "devbench/internal/platform/mysql"
	rabbitmqClient "devbench/internal/platform/rabbitmq"
	redisClient "devbench/internal/platform/redis"
	"devbench/internal/repository"
	"devbench/internal/worker"
)

type App struct {
	Config       *config.Config
	Log          *zap.SugaredLogger
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	Catalog      content.Repository
	RunService   *appsvc.RunService
	ResultWorker *worker.ResultIngestWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("build logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.AiModel{},
		&model.Session{},
		&model.ModelConfig{},
		&model.Run{},
		&model.RunResult{},
	); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	sessionRepo := repository.NewSessionRepository(mysqlDB)
	configRepo := repository.NewModelConfigRepository(mysqlDB)
	runRepo := repository.NewRunRepository(mysqlDB)
	resultRepo := repository.NewRunResultRepository(mysqlDB)

	runHistoryCache := cache.NewRunHistoryCache(
		redisCli,
		time.Duration(cfg.Redis.RunsTTLSeconds)*time.Second,
		time.Duration(cfg.Redis.RunsDirtyTTLSeconds)*time.Second,
	)
	runPublisher := rabbitmqClient.NewRunPublisher(mqConn, cfg.RabbitMQ.RunDispatchQueue)

	runService := appsvc.NewRunService(
		sessionRepo,
		configRepo,
		runRepo,
		resultRepo,
		runPublisher,
		runHistoryCache,
		log,
	)

	resultWorker := worker.NewResultIngestWorker(mqConn, runService, cfg.RabbitMQ.RunResultQueue, log)
	if err := resultWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start result ingest worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		Log:          log,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		Catalog:      content.NewFileRepository(cfg.Content.Path),
		RunService:   runService,
		ResultWorker: resultWorker,
		StartedAt:    time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ResultWorker != nil {
		a.ResultWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Log != nil {
		_ = a.Log.Sync()
	}
	return closeErr
}
