package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"devbench/internal/model"
)

type RunRepository struct {
	db *gorm.DB
}

func NewRunRepository(db *gorm.DB) *RunRepository {
	return &RunRepository{db: db}
}

func (r *RunRepository) Create(run *model.Run) error {
	if err := r.db.Create(run).Error; err != nil {
		return fmt.Errorf("create run failed: %w", err)
	}
	return nil
}

func (r *RunRepository) GetByID(runID uint) (*model.Run, error) {
	var run model.Run
	if err := r.db.First(&run, runID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get run failed: %w", err)
	}
	return &run, nil
}

// ListBySessionID returns runs most recent first.
func (r *RunRepository) ListBySessionID(sessionID uint) ([]model.Run, error) {
	var runs []model.Run
	err := r.db.Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs failed: %w", err)
	}
	return runs, nil
}
