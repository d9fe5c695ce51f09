package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	repository "task-tracker.com/task-tracker/internal/repositories"
	"task-tracker.com/task-tracker/pkg/constants"
	model "task-tracker.com/task-tracker/pkg/models"
)

var ErrDuplicateTask = errors.New("a task with the same title and description already exists for this user")

type TaskService struct {
	repo *repository.TaskRepository
}

type CreateTaskInput struct {
	Title       string
	Description string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *constants.TaskStatus
}

func NewTaskService(repo *repository.TaskRepository) *TaskService {
	return &TaskService{
		repo: repo,
	}
}

func (s *TaskService) CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*model.Task, error) {
	title := strings.TrimSpace(input.Title)

	_, exists, err := s.repo.FindByTitleAndDescription(ctx, userID, title, input.Description)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateTask
	}

	task, err := s.repo.CreateTask(ctx, userID, title, input.Description)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateTask) {
			// Lost a race with a concurrent create of the same task.
			zap.L().Info("duplicate task rejected by unique index", zap.String("user_id", userID))
			return nil, ErrDuplicateTask
		}
		return nil, err
	}

	return task, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, userID, taskID string) (*model.Task, bool, error) {
	return s.repo.FindByID(ctx, userID, taskID)
}

func (s *TaskService) GetAllTasks(ctx context.Context, userID string) ([]model.Task, error) {
	return s.repo.ListByUser(ctx, userID)
}

// maxUpdateAttempts bounds re-validation when a concurrent update moves the status first.
const maxUpdateAttempts = 3

// UpdateTask applies a partial update. A status change outside the lifecycle
// aborts the whole update with *InvalidTransitionError. A status change is
// written only if the status it was checked against is still stored.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID string, input UpdateTaskInput) (*model.Task, bool, error) {
	for attempt := 1; ; attempt++ {
		current, found, err := s.repo.FindByID(ctx, userID, taskID)
		if err != nil || !found {
			return nil, false, err
		}

		changes := repository.TaskChanges{
			Title:       input.Title,
			Description: input.Description,
			Status:      input.Status,
		}
		if input.Status != nil {
			if *input.Status != current.Status && !CanTransition(current.Status, *input.Status) {
				return nil, false, &InvalidTransitionError{From: current.Status, To: *input.Status}
			}
			changes.ExpectedStatus = &current.Status
		}

		task, found, err := s.repo.Update(ctx, userID, taskID, changes)
		switch {
		case errors.Is(err, repository.ErrStaleTask) && attempt < maxUpdateAttempts:
			zap.L().Debug("task status changed during update, retrying",
				zap.String("task_id", taskID), zap.Int("attempt", attempt))
			continue
		case errors.Is(err, repository.ErrDuplicateTask):
			return nil, false, ErrDuplicateTask
		}
		return task, found, err
	}
}

func (s *TaskService) DeleteTask(ctx context.Context, userID, taskID string) (*model.Task, bool, error) {
	return s.repo.Delete(ctx, userID, taskID)
}

func (s *TaskService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
