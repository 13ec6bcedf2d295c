package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"devbench/internal/model"
	"devbench/internal/repository"
)

var (
	ErrRunNotFound           = errors.New("run not found")
	ErrPromptEmpty           = errors.New("user_prompt is required")
	ErrInvalidRunStatus      = errors.New("status must be success, error, timeout or cancelled")
	ErrConfigSessionMismatch = errors.New("model config does not belong to the run's session")
)

// RunDispatchEvent is published when a run is recorded, so the
// external execution collaborator can pick it up. Results come back
// through the results queue or the HTTP results endpoint.
type RunDispatchEvent struct {
	RunID       uint                `json:"run_id"`
	SessionID   uint                `json:"session_id"`
	RunMode     string              `json:"run_mode"`
	UserPrompt  string              `json:"user_prompt"`
	ContextCode string              `json:"context_code"`
	Configs     []RunDispatchConfig `json:"configs"`
}

type RunDispatchConfig struct {
	ConfigID     uint    `json:"config_id"`
	AiModelID    uint    `json:"ai_model_id"`
	Role         string  `json:"role"`
	Temperature  float64 `json:"temperature"`
	SystemPrompt string  `json:"system_prompt"`
}

type RunDispatchPublisher interface {
	PublishRunDispatch(ctx context.Context, event RunDispatchEvent) error
}

type RunHistoryCache interface {
	GetRuns(ctx context.Context, sessionID uint) ([]model.Run, bool, error)
	SetRuns(ctx context.Context, sessionID uint, runs []model.Run) error
	DeleteRuns(ctx context.Context, sessionID uint) error
	MarkDirty(ctx context.Context, sessionID uint) error
	IsDirty(ctx context.Context, sessionID uint) (bool, error)
}

type RunService struct {
	sessionRepo  *repository.SessionRepository
	configRepo   *repository.ModelConfigRepository
	runRepo      *repository.RunRepository
	resultRepo   *repository.RunResultRepository
	publisher    RunDispatchPublisher
	historyCache RunHistoryCache
	log          *zap.SugaredLogger
}

func NewRunService(
	sessionRepo *repository.SessionRepository,
	configRepo *repository.ModelConfigRepository,
	runRepo *repository.RunRepository,
	resultRepo *repository.RunResultRepository,
	publisher RunDispatchPublisher,
	historyCache RunHistoryCache,
	log *zap.SugaredLogger,
) *RunService {
	return &RunService{
		sessionRepo:  sessionRepo,
		configRepo:   configRepo,
		runRepo:      runRepo,
		resultRepo:   resultRepo,
		publisher:    publisher,
		historyCache: historyCache,
		log:          log,
	}
}

type RecordRunInput struct {
	UserID      uint
	SessionID   uint
	UserPrompt  string
	ContextCode string
}

// RecordRun persists the run, bumps the session's activity timestamp
// and hands the run to the dispatch queue. The run row itself is
// immutable from here on.
func (s *RunService) RecordRun(ctx context.Context, input RecordRunInput) (*model.Run, error) {
	if input.UserID == 0 || input.SessionID == 0 {
		return nil, ErrInvalidInput
	}
	prompt := strings.TrimSpace(input.UserPrompt)
	if prompt == "" {
		return nil, ErrPromptEmpty
	}

	session, err := s.sessionRepo.GetByIDAndUserID(input.SessionID, input.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	run := &model.Run{
		SessionID:   session.ID,
		UserPrompt:  prompt,
		ContextCode: input.ContextCode,
		CreatedAt:   time.Now(),
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, err
	}

	if err := s.sessionRepo.TouchActivity(session.ID, run.CreatedAt); err != nil {
		return nil, err
	}

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, session.ID)
		_ = s.historyCache.DeleteRuns(ctx, session.ID)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishRunDispatch(ctx, s.buildDispatchEvent(session, run)); err != nil {
			// The run is already recorded; dispatch can be retried by
			// the caller, so the request itself does not fail.
			if s.log != nil {
				s.log.Errorw("publish run dispatch failed", "run_id", run.ID, "error", err)
			}
		}
	}

	return run, nil
}

func (s *RunService) buildDispatchEvent(session *model.Session, run *model.Run) RunDispatchEvent {
	event := RunDispatchEvent{
		RunID:       run.ID,
		SessionID:   session.ID,
		RunMode:     session.RunMode,
		UserPrompt:  run.UserPrompt,
		ContextCode: run.ContextCode,
	}
	configs, err := s.configRepo.ListEnabledBySessionID(session.ID)
	if err != nil {
		if s.log != nil {
			s.log.Warnw("list enabled configs for dispatch failed", "session_id", session.ID, "error", err)
		}
		return event
	}
	for _, c := range configs {
		event.Configs = append(event.Configs, RunDispatchConfig{
			ConfigID:     c.ID,
			AiModelID:    c.AiModelID,
			Role:         c.Role,
			Temperature:  c.Temperature,
			SystemPrompt: c.SystemPrompt,
		})
	}
	return event
}

// ListRuns returns the session's runs newest first, served from the
// cache when it is clean.
func (s *RunService) ListRuns(ctx context.Context, userID, sessionID uint) ([]model.Run, error) {
	if userID == 0 || sessionID == 0 {
		return nil, ErrInvalidInput
	}
	session, err := s.sessionRepo.GetByIDAndUserID(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, session.ID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetRuns(ctx, session.ID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	runs, err := s.runRepo.ListBySessionID(session.ID)
	if err != nil {
		return nil, err
	}
	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, session.ID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetRuns(ctx, session.ID, runs)
		}
	}
	return runs, nil
}

type RecordRunResultInput struct {
	RunID           uint
	ModelConfigID   uint
	Status          string
	Output          string
	ResponseMessage string
	LatencyMs       *uint
	TokensIn        *uint
	TokensOut       *uint
}

// RecordRunResult appends one model's output to a run. The config
// must belong to the same session as the run, otherwise a result
// could leak across sessions.
func (s *RunService) RecordRunResult(input RecordRunResultInput) (*model.RunResult, error) {
	if input.RunID == 0 || input.ModelConfigID == 0 {
		return nil, ErrInvalidInput
	}
	if !model.ValidRunStatus(input.Status) {
		return nil, ErrInvalidRunStatus
	}

	run, err := s.runRepo.GetByID(input.RunID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}

	config, err := s.configRepo.GetByID(input.ModelConfigID)
	if err != nil {
		return nil, err
	}
	if config == nil {
		return nil, ErrConfigNotFound
	}
	if config.SessionID != run.SessionID {
		return nil, ErrConfigSessionMismatch
	}

	result := &model.RunResult{
		RunID:           run.ID,
		ModelConfigID:   config.ID,
		Output:          input.Output,
		Status:          input.Status,
		ResponseMessage: input.ResponseMessage,
		LatencyMs:       input.LatencyMs,
		TokensIn:        input.TokensIn,
		TokensOut:       input.TokensOut,
		CreatedAt:       time.Now(),
	}
	if err := s.resultRepo.Create(result); err != nil {
		return nil, err
	}
	return result, nil
}

// ListRunResults returns a run's results oldest first.
func (s *RunService) ListRunResults(userID, runID uint) ([]model.RunResult, error) {
	if userID == 0 || runID == 0 {
		return nil, ErrInvalidInput
	}
	run, err := s.runRepo.GetByID(runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	session, err := s.sessionRepo.GetByIDAndUserID(run.SessionID, userID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrRunNotFound
	}
	return s.resultRepo.ListByRunID(run.ID)
}
