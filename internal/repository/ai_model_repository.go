package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devbench/internal/model"
)

type AiModelRepository struct {
	db *gorm.DB
}

func NewAiModelRepository(db *gorm.DB) *AiModelRepository {
	return &AiModelRepository{db: db}
}

func (r *AiModelRepository) Create(aiModel *model.AiModel) error {
	if err := r.db.Create(aiModel).Error; err != nil {
		return fmt.Errorf("create ai model failed: %w", err)
	}
	return nil
}

func (r *AiModelRepository) GetByID(id uint) (*model.AiModel, error) {
	var aiModel model.AiModel
	if err := r.db.First(&aiModel, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ai model failed: %w", err)
	}
	return &aiModel, nil
}

func (r *AiModelRepository) GetByAPIIdentifier(apiIdentifier string) (*model.AiModel, error) {
	var aiModel model.AiModel
	if err := r.db.Where("api_identifier = ?", apiIdentifier).First(&aiModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ai model by identifier failed: %w", err)
	}
	return &aiModel, nil
}

func (r *AiModelRepository) List() ([]model.AiModel, error) {
	var models []model.AiModel
	if err := r.db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("list ai models failed: %w", err)
	}
	return models, nil
}

func (r *AiModelRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.AiModel{}, id).Error; err != nil {
		return fmt.Errorf("delete ai model failed: %w", err)
	}
	return nil
}
