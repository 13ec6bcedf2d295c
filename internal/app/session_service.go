package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"devbench/internal/model"
	"devbench/internal/repository"
)

var (
	ErrSessionNotFound       = errors.New("session not found")
	ErrSessionQuotaExceeded  = fmt.Errorf("you have reached the maximum limit of %d active sessions", model.ActiveSessionLimit)
	ErrInvalidRunMode        = errors.New("run_mode must be parallel or pipeline")
	ErrInvalidRole           = errors.New("role must be coder or explainer")
	ErrInvalidTemperature    = errors.New("temperature must be between 0.00 and 2.00")
	ErrConfigNotFound        = errors.New("model config not found")
	ErrConfigExists          = errors.New("this model is already configured for that role in this session")
	ErrConfigInUse           = errors.New("model config has recorded run results and cannot be deleted")
	ErrAiModelNotFound       = errors.New("ai model not found")
)

type SessionService struct {
	sessionRepo *repository.SessionRepository
	configRepo  *repository.ModelConfigRepository
	resultRepo  *repository.RunResultRepository
	aiModelRepo *repository.AiModelRepository
}

func NewSessionService(
	sessionRepo *repository.SessionRepository,
	configRepo *repository.ModelConfigRepository,
	resultRepo *repository.RunResultRepository,
	aiModelRepo *repository.AiModelRepository,
) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		configRepo:  configRepo,
		resultRepo:  resultRepo,
		aiModelRepo: aiModelRepo,
	}
}

type CreateSessionInput struct {
	UserID  uint
	Title   string
	RunMode string
}

func (s *SessionService) CreateSession(input CreateSessionInput) (*model.Session, error) {
	if input.UserID == 0 {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrInvalidInput
	}

	runMode := strings.TrimSpace(input.RunMode)
	if runMode == "" {
		runMode = model.RunModePipeline
	}
	if !model.ValidRunMode(runMode) {
		return nil, ErrInvalidRunMode
	}

	session := &model.Session{
		UserID:         input.UserID,
		Title:          title,
		RunMode:        runMode,
		LastActivityAt: time.Now(),
	}
	if err := s.sessionRepo.CreateUnderQuota(session, model.ActiveSessionLimit); err != nil {
		if errors.Is(err, repository.ErrActiveSessionLimit) {
			return nil, ErrSessionQuotaExceeded
		}
		return nil, err
	}
	return session, nil
}

func (s *SessionService) ListSessions(userID uint) ([]model.Session, error) {
	if userID == 0 {
		return nil, ErrInvalidInput
	}
	return s.sessionRepo.ListByUserID(userID)
}

func (s *SessionService) GetSession(userID, sessionID uint) (*model.Session, error) {
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
	return session, nil
}

type UpdateSessionInput struct {
	UserID    uint
	SessionID uint
	Title     *string
	RunMode   *string
}

// UpdateSession edits title and run mode. The session quota applies
// only at creation, so no re-check happens here.
func (s *SessionService) UpdateSession(input UpdateSessionInput) (*model.Session, error) {
	session, err := s.GetSession(input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrInvalidInput
		}
		session.Title = title
	}
	if input.RunMode != nil {
		if !model.ValidRunMode(*input.RunMode) {
			return nil, ErrInvalidRunMode
		}
		session.RunMode = *input.RunMode
	}

	if err := s.sessionRepo.Save(session); err != nil {
		return nil, err
	}
	return session, nil
}

// ArchiveSession soft-disables the session, freeing a quota slot.
// Children are untouched.
func (s *SessionService) ArchiveSession(userID, sessionID uint) (*model.Session, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.IsArchived {
		session.IsArchived = true
		if err := s.sessionRepo.Save(session); err != nil {
			return nil, err
		}
	}
	return session, nil
}

// DeleteSession removes the session and all of its configs, runs and
// results atomically.
func (s *SessionService) DeleteSession(userID, sessionID uint) error {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return err
	}
	return s.sessionRepo.DeleteCascade(session.ID)
}

type CreateModelConfigInput struct {
	UserID       uint
	SessionID    uint
	AiModelID    uint
	Role         string
	Temperature  *float64
	SystemPrompt string
	IsEnabled    *bool
}

// CreateModelConfig adds a model to a session under a role. The
// (session, ai_model, role) triple is unique; a duplicate fails with
// ErrConfigExists.
func (s *SessionService) CreateModelConfig(input CreateModelConfigInput) (*model.ModelConfig, error) {
	session, err := s.GetSession(input.UserID, input.SessionID)
	if err != nil {
		return nil, err
	}
	if input.AiModelID == 0 {
		return nil, ErrInvalidInput
	}
	if !model.ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}

	aiModel, err := s.aiModelRepo.GetByID(input.AiModelID)
	if err != nil {
		return nil, err
	}
	if aiModel == nil {
		return nil, ErrAiModelNotFound
	}

	existing, err := s.configRepo.GetBySessionModelRole(session.ID, input.AiModelID, input.Role)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrConfigExists
	}

	temperature := model.DefaultTemperature
	if input.Temperature != nil {
		temperature = *input.Temperature
	}
	if temperature < 0 || temperature > 2 {
		return nil, ErrInvalidTemperature
	}

	enabled := true
	if input.IsEnabled != nil {
		enabled = *input.IsEnabled
	}

	config := &model.ModelConfig{
		SessionID:    session.ID,
		AiModelID:    input.AiModelID,
		Role:         input.Role,
		Temperature:  temperature,
		SystemPrompt: input.SystemPrompt,
		IsEnabled:    enabled,
	}
	if err := s.configRepo.Create(config); err != nil {
		return nil, err
	}
	return config, nil
}

type UpdateModelConfigInput struct {
	UserID       uint
	SessionID    uint
	ConfigID     uint
	Temperature  *float64
	SystemPrompt *string
	IsEnabled    *bool
}

// UpdateModelConfig changes temperature, prompt or enabled flag. The
// identity triple (session, ai_model, role) is fixed for the lifetime
// of the config.
func (s *SessionService) UpdateModelConfig(input UpdateModelConfigInput) (*model.ModelConfig, error) {
	config, err := s.getOwnedConfig(input.UserID, input.SessionID, input.ConfigID)
	if err != nil {
		return nil, err
	}

	if input.Temperature != nil {
		if *input.Temperature < 0 || *input.Temperature > 2 {
			return nil, ErrInvalidTemperature
		}
		config.Temperature = *input.Temperature
	}
	if input.SystemPrompt != nil {
		config.SystemPrompt = *input.SystemPrompt
	}
	if input.IsEnabled != nil {
		config.IsEnabled = *input.IsEnabled
	}

	if err := s.configRepo.Save(config); err != nil {
		return nil, err
	}
	return config, nil
}

func (s *SessionService) ListModelConfigs(userID, sessionID uint) ([]model.ModelConfig, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	return s.configRepo.ListBySessionID(session.ID)
}

// DeleteModelConfig removes a config unless run results still
// reference it.
func (s *SessionService) DeleteModelConfig(userID, sessionID, configID uint) error {
	config, err := s.getOwnedConfig(userID, sessionID, configID)
	if err != nil {
		return err
	}

	count, err := s.resultRepo.CountByModelConfigID(config.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrConfigInUse
	}
	return s.configRepo.Delete(config.ID)
}

func (s *SessionService) getOwnedConfig(userID, sessionID, configID uint) (*model.ModelConfig, error) {
	session, err := s.GetSession(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if configID == 0 {
		return nil, ErrInvalidInput
	}
	config, err := s.configRepo.GetByID(configID)
	if err != nil {
		return nil, err
	}
	if config == nil || config.SessionID != session.ID {
		return nil, ErrConfigNotFound
	}
	return config, nil
}
