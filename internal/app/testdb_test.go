package app

import (
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"devbench/internal/model"
	"devbench/internal/repository"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// A single connection keeps every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.User{},
		&model.AiModel{},
		&model.Session{},
		&model.ModelConfig{},
		&model.Run{},
		&model.RunResult{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func newSessionService(db *gorm.DB) *SessionService {
	return NewSessionService(
		repository.NewSessionRepository(db),
		repository.NewModelConfigRepository(db),
		repository.NewRunResultRepository(db),
		repository.NewAiModelRepository(db),
	)
}

func newRunService(db *gorm.DB, publisher RunDispatchPublisher, historyCache RunHistoryCache) *RunService {
	return NewRunService(
		repository.NewSessionRepository(db),
		repository.NewModelConfigRepository(db),
		repository.NewRunRepository(db),
		repository.NewRunResultRepository(db),
		publisher,
		historyCache,
		zap.NewNop().Sugar(),
	)
}

func seedAiModel(t *testing.T, db *gorm.DB, apiIdentifier string) *model.AiModel {
	t.Helper()
	aiModel := &model.AiModel{
		Provider:      "openai",
		Name:          "GPT-4o",
		APIIdentifier: apiIdentifier,
		IsActive:      true,
	}
	if err := db.Create(aiModel).Error; err != nil {
		t.Fatalf("seed ai model failed: %v", err)
	}
	return aiModel
}
