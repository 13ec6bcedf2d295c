package app

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"devbench/internal/model"
)

func TestCreateSession_QuotaEnforced(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	for i := 0; i < model.ActiveSessionLimit; i++ {
		if _, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"}); err != nil {
			t.Fatalf("create session %d failed: %v", i+1, err)
		}
	}

	_, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "one too many"})
	if !errors.Is(err, ErrSessionQuotaExceeded) {
		t.Fatalf("expected quota error, got %v", err)
	}

	// A different user is unaffected.
	if _, err := svc.CreateSession(CreateSessionInput{UserID: 2, Title: "other user"}); err != nil {
		t.Fatalf("create for other user failed: %v", err)
	}

	// Archiving frees a slot.
	sessions, err := svc.ListSessions(1)
	if err != nil {
		t.Fatalf("list sessions failed: %v", err)
	}
	if _, err := svc.ArchiveSession(1, sessions[0].ID); err != nil {
		t.Fatalf("archive session failed: %v", err)
	}
	if _, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "fits again"}); err != nil {
		t.Fatalf("create after archive failed: %v", err)
	}
}

func TestCreateSession_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	if _, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "   "}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for blank title, got %v", err)
	}
	if _, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "t", RunMode: "turbo"}); !errors.Is(err, ErrInvalidRunMode) {
		t.Fatalf("expected invalid run mode, got %v", err)
	}

	session, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "t"})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}
	if session.RunMode != model.RunModePipeline {
		t.Fatalf("expected default run mode pipeline, got %q", session.RunMode)
	}
	if session.LastActivityAt.IsZero() {
		t.Fatal("expected last_activity_at to be set")
	}
}

func TestUpdateSession_NoQuotaRecheck(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)

	var last *model.Session
	for i := 0; i < model.ActiveSessionLimit; i++ {
		s, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
		if err != nil {
			t.Fatalf("create session failed: %v", err)
		}
		last = s
	}

	title := "renamed"
	mode := model.RunModeParallel
	updated, err := svc.UpdateSession(UpdateSessionInput{UserID: 1, SessionID: last.ID, Title: &title, RunMode: &mode})
	if err != nil {
		t.Fatalf("update at quota failed: %v", err)
	}
	if updated.Title != "renamed" || updated.RunMode != model.RunModeParallel {
		t.Fatalf("update not applied: %+v", updated)
	}
}

func TestCreateModelConfig_UniqueTriple(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	aiModel := seedAiModel(t, db, "gpt-4o")
	other := seedAiModel(t, db, "claude-sonnet")

	session, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	first, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	if first.Temperature != model.DefaultTemperature {
		t.Fatalf("expected default temperature, got %v", first.Temperature)
	}
	if !first.IsEnabled {
		t.Fatal("expected config enabled by default")
	}

	_, err = svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})
	if !errors.Is(err, ErrConfigExists) {
		t.Fatalf("expected duplicate config error, got %v", err)
	}

	// Same model under a different role is fine.
	if _, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleExplainer,
	}); err != nil {
		t.Fatalf("create explainer config failed: %v", err)
	}
	// And a different model under the same role.
	if _, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: other.ID, Role: model.RoleCoder,
	}); err != nil {
		t.Fatalf("create config for other model failed: %v", err)
	}
}

func TestCreateModelConfig_TemperatureRange(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	aiModel := seedAiModel(t, db, "gpt-4o")

	session, err := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
	if err != nil {
		t.Fatalf("create session failed: %v", err)
	}

	bad := 2.5
	_, err = svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder, Temperature: &bad,
	})
	if !errors.Is(err, ErrInvalidTemperature) {
		t.Fatalf("expected temperature error, got %v", err)
	}
}

func TestUpdateModelConfig_MutableFieldsOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	aiModel := seedAiModel(t, db, "gpt-4o")

	session, _ := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
	config, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}

	temp := 1.25
	prompt := "You write idiomatic Go."
	disabled := false
	updated, err := svc.UpdateModelConfig(UpdateModelConfigInput{
		UserID: 1, SessionID: session.ID, ConfigID: config.ID,
		Temperature: &temp, SystemPrompt: &prompt, IsEnabled: &disabled,
	})
	if err != nil {
		t.Fatalf("update config failed: %v", err)
	}
	if updated.Temperature != 1.25 || updated.SystemPrompt != prompt || updated.IsEnabled {
		t.Fatalf("update not applied: %+v", updated)
	}
	if updated.AiModelID != aiModel.ID || updated.Role != model.RoleCoder || updated.SessionID != session.ID {
		t.Fatalf("identity triple changed: %+v", updated)
	}
}

func TestDeleteSession_CascadesToChildren(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	runs := newRunService(db, nil, nil)
	aiModel := seedAiModel(t, db, "gpt-4o")
	ctx := context.Background()

	session, _ := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "to delete"})
	keep, _ := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "to keep"})

	config, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})
	if err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	keepConfig, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: keep.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})
	if err != nil {
		t.Fatalf("create keep config failed: %v", err)
	}

	for i := 0; i < 2; i++ {
		run, err := runs.RecordRun(ctx, RecordRunInput{UserID: 1, SessionID: session.ID, UserPrompt: "p"})
		if err != nil {
			t.Fatalf("record run failed: %v", err)
		}
		if _, err := runs.RecordRunResult(RecordRunResultInput{
			RunID: run.ID, ModelConfigID: config.ID, Status: model.RunStatusSuccess, Output: "ok",
		}); err != nil {
			t.Fatalf("record result failed: %v", err)
		}
	}
	keepRun, err := runs.RecordRun(ctx, RecordRunInput{UserID: 1, SessionID: keep.ID, UserPrompt: "p"})
	if err != nil {
		t.Fatalf("record keep run failed: %v", err)
	}
	if _, err := runs.RecordRunResult(RecordRunResultInput{
		RunID: keepRun.ID, ModelConfigID: keepConfig.ID, Status: model.RunStatusSuccess,
	}); err != nil {
		t.Fatalf("record keep result failed: %v", err)
	}

	if err := svc.DeleteSession(1, session.ID); err != nil {
		t.Fatalf("delete session failed: %v", err)
	}

	assertCount(t, db, &model.ModelConfig{}, "session_id = ?", session.ID, 0)
	assertCount(t, db, &model.Run{}, "session_id = ?", session.ID, 0)
	assertCount(t, db, &model.RunResult{}, "session_model_config_id = ?", config.ID, 0)

	// The sibling session keeps its rows.
	assertCount(t, db, &model.ModelConfig{}, "session_id = ?", keep.ID, 1)
	assertCount(t, db, &model.Run{}, "session_id = ?", keep.ID, 1)
	assertCount(t, db, &model.RunResult{}, "session_model_config_id = ?", keepConfig.ID, 1)
}

func TestDeleteModelConfig_ProtectedWhileResultsExist(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	runs := newRunService(db, nil, nil)
	aiModel := seedAiModel(t, db, "gpt-4o")
	ctx := context.Background()

	session, _ := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
	config, _ := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	})

	run, err := runs.RecordRun(ctx, RecordRunInput{UserID: 1, SessionID: session.ID, UserPrompt: "p"})
	if err != nil {
		t.Fatalf("record run failed: %v", err)
	}
	if _, err := runs.RecordRunResult(RecordRunResultInput{
		RunID: run.ID, ModelConfigID: config.ID, Status: model.RunStatusSuccess,
	}); err != nil {
		t.Fatalf("record result failed: %v", err)
	}

	if err := svc.DeleteModelConfig(1, session.ID, config.ID); !errors.Is(err, ErrConfigInUse) {
		t.Fatalf("expected protected config error, got %v", err)
	}

	// A config without results deletes normally.
	free, _ := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleExplainer,
	})
	if err := svc.DeleteModelConfig(1, session.ID, free.ID); err != nil {
		t.Fatalf("delete unused config failed: %v", err)
	}
}

func TestArchiveSession_KeepsChildren(t *testing.T) {
	db := newTestDB(t)
	svc := newSessionService(db)
	runs := newRunService(db, nil, nil)
	aiModel := seedAiModel(t, db, "gpt-4o")

	session, _ := svc.CreateSession(CreateSessionInput{UserID: 1, Title: "workspace"})
	if _, err := svc.CreateModelConfig(CreateModelConfigInput{
		UserID: 1, SessionID: session.ID, AiModelID: aiModel.ID, Role: model.RoleCoder,
	}); err != nil {
		t.Fatalf("create config failed: %v", err)
	}
	if _, err := runs.RecordRun(context.Background(), RecordRunInput{UserID: 1, SessionID: session.ID, UserPrompt: "p"}); err != nil {
		t.Fatalf("record run failed: %v", err)
	}

	archived, err := svc.ArchiveSession(1, session.ID)
	if err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if !archived.IsArchived {
		t.Fatal("expected session archived")
	}
	assertCount(t, db, &model.ModelConfig{}, "session_id = ?", session.ID, 1)
	assertCount(t, db, &model.Run{}, "session_id = ?", session.ID, 1)
}

func assertCount(t *testing.T, db *gorm.DB, m interface{}, query string, arg interface{}, want int64) {
	t.Helper()
	var count int64
	if err := db.Model(m).Where(query, arg).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != want {
		t.Fatalf("expected %d rows, got %d", want, count)
	}
}
