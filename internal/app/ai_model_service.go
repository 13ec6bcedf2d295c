package app

import (
	"errors"
	"strings"

	"devbench/internal/model"
	"devbench/internal/repository"
)

var (
	ErrAiModelExists = errors.New("ai model with this api identifier already exists")
	ErrAiModelInUse  = errors.New("ai model is referenced by session configs and cannot be deleted")
)

type AiModelService struct {
	aiModelRepo *repository.AiModelRepository
	configRepo  *repository.ModelConfigRepository
}

func NewAiModelService(aiModelRepo *repository.AiModelRepository, configRepo *repository.ModelConfigRepository) *AiModelService {
	return &AiModelService{aiModelRepo: aiModelRepo, configRepo: configRepo}
}

type CreateAiModelInput struct {
	Provider      string
	Name          string
	APIIdentifier string
	IsActive      *bool
}

func (s *AiModelService) CreateAiModel(input CreateAiModelInput) (*model.AiModel, error) {
	provider := strings.TrimSpace(input.Provider)
	name := strings.TrimSpace(input.Name)
	apiIdentifier := strings.TrimSpace(input.APIIdentifier)
	if provider == "" || name == "" || apiIdentifier == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.aiModelRepo.GetByAPIIdentifier(apiIdentifier)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAiModelExists
	}

	active := true
	if input.IsActive != nil {
		active = *input.IsActive
	}

	aiModel := &model.AiModel{
		Provider:      provider,
		Name:          name,
		APIIdentifier: apiIdentifier,
		IsActive:      active,
	}
	if err := s.aiModelRepo.Create(aiModel); err != nil {
		return nil, err
	}
	return aiModel, nil
}

func (s *AiModelService) ListAiModels() ([]model.AiModel, error) {
	return s.aiModelRepo.List()
}

// DeleteAiModel removes a registry entry. The reference from session
// configs is protected: deletion fails while any config points at the
// model.
func (s *AiModelService) DeleteAiModel(id uint) error {
	if id == 0 {
		return ErrInvalidInput
	}
	aiModel, err := s.aiModelRepo.GetByID(id)
	if err != nil {
		return err
	}
	if aiModel == nil {
		return ErrAiModelNotFound
	}

	count, err := s.configRepo.CountByAiModelID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrAiModelInUse
	}
	return s.aiModelRepo.Delete(id)
}
