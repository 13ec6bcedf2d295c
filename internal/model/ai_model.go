package model

import "time"

// AiModel is a registry entry for a model that can be configured into
// a session. Deletion is blocked while any config references it.
type AiModel struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Provider      string    `gorm:"size:64;not null" json:"provider"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	APIIdentifier string    `gorm:"size:128;not null;uniqueIndex" json:"api_identifier"`
	IsActive      bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (AiModel) TableName() string { return "ai_model" }
