package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devbench/internal/model"
)

type ModelConfigRepository struct {
	db *gorm.DB
}

func NewModelConfigRepository(db *gorm.DB) *ModelConfigRepository {
	return &ModelConfigRepository{db: db}
}

func (r *ModelConfigRepository) Create(config *model.ModelConfig) error {
	if err := r.db.Create(config).Error; err != nil {
		return fmt.Errorf("create model config failed: %w", err)
	}
	return nil
}

func (r *ModelConfigRepository) Save(config *model.ModelConfig) error {
	if err := r.db.Save(config).Error; err != nil {
		return fmt.Errorf("save model config failed: %w", err)
	}
	return nil
}

func (r *ModelConfigRepository) GetByID(configID uint) (*model.ModelConfig, error) {
	var config model.ModelConfig
	if err := r.db.First(&config, configID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get model config failed: %w", err)
	}
	return &config, nil
}

// GetBySessionModelRole looks up the config for the unique
// (session, ai_model, role) triple.
func (r *ModelConfigRepository) GetBySessionModelRole(sessionID, aiModelID uint, role string) (*model.ModelConfig, error) {
	var config model.ModelConfig
	err := r.db.Where("session_id = ? AND ai_model_id = ? AND role = ?", sessionID, aiModelID, role).
		First(&config).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get model config by triple failed: %w", err)
	}
	return &config, nil
}

func (r *ModelConfigRepository) ListBySessionID(sessionID uint) ([]model.ModelConfig, error) {
	var configs []model.ModelConfig
	if err := r.db.Where("session_id = ?", sessionID).Order("id ASC").Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list model configs failed: %w", err)
	}
	return configs, nil
}

func (r *ModelConfigRepository) ListEnabledBySessionID(sessionID uint) ([]model.ModelConfig, error) {
	var configs []model.ModelConfig
	err := r.db.Where("session_id = ? AND is_enabled = ?", sessionID, true).
		Order("id ASC").Find(&configs).Error
	if err != nil {
		return nil, fmt.Errorf("list enabled model configs failed: %w", err)
	}
	return configs, nil
}

func (r *ModelConfigRepository) CountByAiModelID(aiModelID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.ModelConfig{}).Where("ai_model_id = ?", aiModelID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count configs by ai model failed: %w", err)
	}
	return count, nil
}

func (r *ModelConfigRepository) Delete(configID uint) error {
	if err := r.db.Delete(&model.ModelConfig{}, configID).Error; err != nil {
		return fmt.Errorf("delete model config failed: %w", err)
	}
	return nil
}
