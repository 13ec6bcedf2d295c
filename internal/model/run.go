package model

import "time"

// Run captures one "Run" click: the prompt and optional code context
// submitted against a session. Immutable once created; listed most
// recent first.
type Run struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   uint      `gorm:"not null;index:idx_run_session_created" json:"session_id"`
	UserPrompt  string    `gorm:"type:text;not null" json:"user_prompt"`
	ContextCode string    `gorm:"type:text" json:"context_code"`
	CreatedAt   time.Time `gorm:"index:idx_run_session_created" json:"created_at"`
}

func (Run) TableName() string { return "dev_run" }
