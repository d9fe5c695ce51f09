package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"task-tracker.com/task-tracker/pkg/constants"
	model "task-tracker.com/task-tracker/pkg/models"
)

var (
	// ErrDuplicateTask is returned when the (user, title, description) unique index rejects a write.
	ErrDuplicateTask = errors.New("duplicate task for user")
	// ErrStaleTask is returned when TaskChanges.ExpectedStatus no longer matches the stored status.
	ErrStaleTask = errors.New("task status changed concurrently")
)

// TaskRepository stores tasks. Every query is filtered by the owning user; a task
// that belongs to someone else is reported exactly like a task that does not exist.
type TaskRepository struct {
	db *gorm.DB
}

// TaskChanges is a partial update. Nil fields are left untouched.
type TaskChanges struct {
	Title       *string
	Description *string
	Status      *constants.TaskStatus

	// ExpectedStatus, when set, makes the write conditional on the stored status.
	ExpectedStatus *constants.TaskStatus
}

func (c TaskChanges) Empty() bool {
	return c.Title == nil && c.Description == nil && c.Status == nil
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, userID, title, description string) (*model.Task, error) {
	now := time.Now().UTC()
	task := &model.Task{
		ID:          uuid.NewString(),
		UserID:      userID,
		Title:       title,
		Description: description,
		ContentHash: model.ContentHash(title, description),
		Status:      constants.StatusTodo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateTask
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, userID, id string) (*model.Task, bool, error) {
	return first(ownedBy(r.db.WithContext(ctx), userID).Where("id = ?", id))
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID string) ([]model.Task, error) {
	tasks := make([]model.Task, 0)
	err := ownedBy(r.db.WithContext(ctx), userID).Order("created_at desc").Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByTitleAndDescription(ctx context.Context, userID, title, description string) (*model.Task, bool, error) {
	return first(ownedBy(r.db.WithContext(ctx), userID).
		Where("title = ? AND description = ?", title, description))
}

func (r *TaskRepository) Update(ctx context.Context, userID, id string, changes TaskChanges) (*model.Task, bool, error) {
	var (
		task  *model.Task
		found bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, found, err = first(ownedBy(tx, userID).Where("id = ?", id))
		if err != nil || !found || changes.Empty() {
			return err
		}

		query := ownedBy(tx.Model(task), userID)
		if expected := changes.ExpectedStatus; expected != nil {
			if task.Status != *expected {
				return ErrStaleTask
			}
			query = query.Where("status = ?", *expected)
		}

		res := query.Updates(applyChanges(task, changes))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			if changes.ExpectedStatus != nil {
				return ErrStaleTask
			}
			found = false
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, false, ErrDuplicateTask
		case errors.Is(err, ErrStaleTask):
			return nil, false, ErrStaleTask
		}
		return nil, false, fmt.Errorf("failed to update task: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	return task, true, nil
}

func (r *TaskRepository) Delete(ctx context.Context, userID, id string) (*model.Task, bool, error) {
	var (
		task  *model.Task
		found bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		task, found, err = first(ownedBy(tx, userID).Where("id = ?", id))
		if err != nil || !found {
			return err
		}

		res := ownedBy(tx, userID).Where("id = ?", id).Delete(&model.Task{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			found = false
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to delete task: %w", err)
	}
	if !found {
		return nil, false, nil
	}

	return task, true, nil
}

// Ping reports whether the database answers.
func (r *TaskRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func ownedBy(db *gorm.DB, userID string) *gorm.DB {
	return db.Where("user_id = ?", userID)
}

func first(query *gorm.DB) (*model.Task, bool, error) {
	var task model.Task
	if err := query.First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to find task: %w", err)
	}
	return &task, true, nil
}

func applyChanges(task *model.Task, changes TaskChanges) map[string]interface{} {
	updates := map[string]interface{}{}

	if changes.Title != nil {
		task.Title = *changes.Title
		updates["title"] = task.Title
	}
	if changes.Description != nil {
		task.Description = *changes.Description
		updates["description"] = task.Description
	}
	if changes.Title != nil || changes.Description != nil {
		task.ContentHash = model.ContentHash(task.Title, task.Description)
		updates["content_hash"] = task.ContentHash
	}
	if changes.Status != nil {
		task.Status = *changes.Status
		updates["status"] = task.Status
	}

	task.UpdatedAt = time.Now().UTC()
	updates["updated_at"] = task.UpdatedAt

	return updates
}
