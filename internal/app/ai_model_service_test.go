package app

import (
	"errors"
	"testing"

	"devbench/internal/model"
	"devbench/internal/repository"
)

func TestCreateAiModel_DuplicateIdentifier(t *testing.T) {
	db := newTestDB(t)
	svc := NewAiModelService(repository.NewAiModelRepository(db), repository.NewModelConfigRepository(db))

	if _, err := svc.CreateAiModel(CreateAiModelInput{Provider: "openai", Name: "GPT-4o", APIIdentifier: "gpt-4o"}); err != nil {
		t.Fatalf("create ai model failed: %v", err)
	}
	_, err := svc.CreateAiModel(CreateAiModelInput{Provider: "openai", Name: "GPT-4o again", APIIdentifier: "gpt-4o"})
	if !errors.Is(err, ErrAiModelExists) {
		t.Fatalf("expected duplicate identifier error, got %v", err)
	}
}

func TestDeleteAiModel_ProtectedWhileConfigured(t *testing.T) {
	db := newTestDB(t)
	modelsSvc := NewAiModelService(repository.NewAiModelRepository(db), repository.NewModelConfigRepository(db))
	sessionsSvc := newSessionService(db)

	aiModel, err := modelsSvc.CreateAiModel(CreateAiModelInput{Provider: "anthropic", Name: "Sonnet", APIIdentifier: "claude-sonnet"})
	if err != nil {
		t.Fatalf("create ai model failed: %v", err)
	}

	session, _ := sessionsSvc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
	config, err := sessionsSvc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	if err := modelsSvc.DeleteAiModel(aiModel.ID); !errors.Is(err, ErrAiModelInUse) {
		t.Fatalf("expected protected reference error, got %v", err)
	}

	// Once the referencing config goes away the model can be removed.
	if err := sessionsSvc.DeleteModelConfig(1, session.ID, config.ID); err != nil {
		t.Fatalf("delete config failed: %v", err)
	}
	if err := modelsSvc.DeleteAiModel(aiModel.ID); err != nil {
		t.Fatalf("delete ai model failed: %v", err)
	}

	if err := modelsSvc.DeleteAiModel(aiModel.ID); !errors.Is(err, ErrAiModelNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}
