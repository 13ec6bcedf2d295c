package model

import "time"

// Terminal statuses for a single model execution within a run.
const (
	RunStatusSuccess   = "success"
	RunStatusError     = "error"
	RunStatusTimeout   = "timeout"
	RunStatusCancelled = "cancelled"
)

// RunResult is one model's output and metrics for a given run. It
// references the config that produced it so results can be compared
// side by side; that reference blocks deletion of the config. Rows
// are never mutated; listed oldest first within a run.
type RunResult struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	RunID           uint      `gorm:"not null;index:idx_result_run_created" json:"run_id"`
	ModelConfigID   uint      `gorm:"column:session_model_config_id;not null;index" json:"session_model_config_id"`
	Output          string    `gorm:"type:text" json:"output"`
	Status          string    `gorm:"size:20;not null;index" json:"status"`
	ResponseMessage string    `gorm:"type:text" json:"response_message"`
	LatencyMs       *uint     `json:"latency_ms"`
	TokensIn        *uint     `json:"tokens_in"`
	TokensOut       *uint     `json:"tokens_out"`
	CreatedAt       time.Time `gorm:"index:idx_result_run_created" json:"created_at"`
}

func (RunResult) TableName() string { return "dev_run_result" }

func ValidRunStatus(status string) bool {
	switch status {
	case RunStatusSuccess, RunStatusError, RunStatusTimeout, RunStatusCancelled:
		return true
	}
	return false
}
