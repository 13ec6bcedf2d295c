package model

import "time"

// Roles a configured model can play within a session.
const (
	RoleCoder     = "coder"
	RoleExplainer = "explainer"
)

// DefaultTemperature applies when a config is created without one.
const DefaultTemperature = 0.70

// ModelConfig binds an AiModel into a session under a role, with the
// sampling settings to use. A given model may be configured at most
// once per role per session.
type ModelConfig struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    uint      `gorm:"not null;uniqueIndex:uq_config_session_model_role;index:idx_config_session_role" json:"session_id"`
	AiModelID    uint      `gorm:"not null;uniqueIndex:uq_config_session_model_role;index" json:"ai_model_id"`
	Role         string    `gorm:"size:20;not null;uniqueIndex:uq_config_session_model_role;index:idx_config_session_role" json:"role"`
	Temperature  float64   `gorm:"type:decimal(3,2);not null;default:0.70" json:"temperature"`
	SystemPrompt string    `gorm:"type:text" json:"system_prompt"`
	IsEnabled    bool      `gorm:"not null;default:true" json:"is_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ModelConfig) TableName() string { return "dev_session_model_config" }

func ValidRole(role string) bool {
	return role == RoleCoder || role == RoleExplainer
}
