package model

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-tracker.com/task-tracker/pkg/constants"
)

var ErrInvalidStatus = errors.New("invalid task status")

// Task is owned by exactly one user. The (user_id, content_hash) index backs the
// one-title-and-description-per-user rule for concurrent writers.
type Task struct {
	ID          string               `gorm:"primaryKey;size:36" json:"id"`
	UserID      string               `gorm:"not null;index;uniqueIndex:idx_tasks_user_content,priority:1" json:"userId"`
	Title       string               `gorm:"size:255;not null" json:"title"`
	Description string               `gorm:"size:5000;not null" json:"description"`
	ContentHash string               `gorm:"size:64;not null;uniqueIndex:idx_tasks_user_content,priority:2" json:"-"`
	Status      constants.TaskStatus `gorm:"type:varchar(20);not null;default:todo" json:"status"`
	CreatedAt   time.Time            `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func ContentHash(title, description string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description))
	return hex.EncodeToString(sum[:])
}

// BeforeSave keeps statuses outside the lifecycle out of the table.
func (t *Task) BeforeSave(*gorm.DB) error {
	if !t.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, t.Status)
	}
	return nil
}
