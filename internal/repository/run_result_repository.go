package repository

import (
	"fmt"

	"gorm.io/gorm"

	"devbench/internal/model"
)

type RunResultRepository struct {
	db *gorm.DB
}

func NewRunResultRepository(db *gorm.DB) *RunResultRepository {
	return &RunResultRepository{db: db}
}

func (r *RunResultRepository) Create(result *model.RunResult) error {
	if err := r.db.Create(result).Error; err != nil {
		return fmt.Errorf("create run result failed: %w", err)
	}
	return nil
}

// ListByRunID returns results oldest first so the comparison view
// reads in execution order.
func (r *RunResultRepository) ListByRunID(runID uint) ([]model.RunResult, error) {
	var results []model.RunResult
	err := r.db.Where("run_id = ?", runID).
		Order("created_at ASC, id ASC").Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("list run results failed: %w", err)
	}
	return results, nil
}

func (r *RunResultRepository) CountByModelConfigID(configID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.RunResult{}).
		Where("session_model_config_id = ?", configID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count results by config failed: %w", err)
	}
	return count, nil
}
