package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"devbench/internal/model"
)

// ErrActiveSessionLimit is returned by CreateUnderQuota when the user
// already holds the maximum number of non-archived sessions.
var ErrActiveSessionLimit = errors.New("active session limit reached")

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// CreateUnderQuota counts the user's active sessions and inserts the
// new one in a single transaction, so two concurrent creations cannot
// both slip under the limit.
func (r *SessionRepository) CreateUnderQuota(session *model.Session, limit int) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Session{}).
			Where("user_id = ? AND is_archived = ?", session.UserID, false).
			Count(&count).Error; err != nil {
			return fmt.Errorf("count active sessions failed: %w", err)
		}
		if count >= int64(limit) {
			return ErrActiveSessionLimit
		}
		if err := tx.Create(session).Error; err != nil {
			return fmt.Errorf("create session failed: %w", err)
		}
		return nil
	})
	return err
}

func (r *SessionRepository) ListByUserID(userID uint) ([]model.Session, error) {
	var sessions []model.Session
	if err := r.db.Where("user_id = ?", userID).Order("last_activity_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("list sessions failed: %w", err)
	}
	return sessions, nil
}

func (r *SessionRepository) GetByIDAndUserID(sessionID, userID uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) GetByID(sessionID uint) (*model.Session, error) {
	var session model.Session
	if err := r.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get session failed: %w", err)
	}
	return &session, nil
}

func (r *SessionRepository) Save(session *model.Session) error {
	if err := r.db.Save(session).Error; err != nil {
		return fmt.Errorf("save session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) TouchActivity(sessionID uint, at time.Time) error {
	if err := r.db.Model(&model.Session{}).Where("id = ?", sessionID).
		Update("last_activity_at", at).Error; err != nil {
		return fmt.Errorf("touch session activity failed: %w", err)
	}
	return nil
}

// DeleteCascade removes the session together with its configs, runs
// and run results in one transaction. All-or-nothing: a failure on any
// child table rolls the whole deletion back.
func (r *SessionRepository) DeleteCascade(sessionID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		runIDs := tx.Model(&model.Run{}).Select("id").Where("session_id = ?", sessionID)
		if err := tx.Where("run_id IN (?)", runIDs).Delete(&model.RunResult{}).Error; err != nil {
			return fmt.Errorf("delete run results failed: %w", err)
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.Run{}).Error; err != nil {
			return fmt.Errorf("delete runs failed: %w", err)
		}
		if err := tx.Where("session_id = ?", sessionID).Delete(&model.ModelConfig{}).Error; err != nil {
			return fmt.Errorf("delete model configs failed: %w", err)
		}
		if err := tx.Delete(&model.Session{}, sessionID).Error; err != nil {
			return fmt.Errorf("delete session failed: %w", err)
		}
		return nil
	})
}
