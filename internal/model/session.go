package model

import "time"

// Run modes for a session: parallel fans the prompt out to every
// enabled config at once, pipeline feeds each config's output into
// the next.
const (
	RunModeParallel = "parallel"
	RunModePipeline = "pipeline"
)

// ActiveSessionLimit is the maximum number of non-archived sessions a
// user may hold. Enforced at creation time only.
const ActiveSessionLimit = 5

// Session is the root aggregate: a user-owned workspace grouping
// model configurations and run history. Archived sessions stay
// readable but no longer count against the quota.
type Session struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"not null;index:idx_session_user_archived" json:"user_id"`
	Title          string    `gorm:"size:200;not null" json:"title"`
	RunMode        string    `gorm:"size:20;not null;default:pipeline" json:"run_mode"`
	IsArchived     bool      `gorm:"not null;default:false;index:idx_session_user_archived" json:"is_archived"`
	LastActivityAt time.Time `gorm:"index" json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Session) TableName() string { return "dev_session" }

func ValidRunMode(mode string) bool {
	return mode == RunModeParallel || mode == RunModePipeline
}
