package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	dto "task-tracker.com/task-tracker/internal/data_models"
	"task-tracker.com/task-tracker/internal/exceptions"
	middleware "task-tracker.com/task-tracker/internal/http/middlewares"
	"task-tracker.com/task-tracker/internal/http/validators"
	"task-tracker.com/task-tracker/internal/services"
	"task-tracker.com/task-tracker/pkg/constants"
)

type Handler struct {
	taskService *services.TaskService
}

func NewHandler(taskService *services.TaskService) *Handler {
	return &Handler{
		taskService: taskService,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return validators.BindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), middleware.UserID(c), services.CreateTaskInput{
		Title:       *req.Title,
		Description: *req.Description,
	})
	if err != nil {
		return taskError(err)
	}

	return c.JSON(http.StatusCreated, task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	tasks, err := h.taskService.GetAllTasks(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, tasks)
}

func (h *Handler) GetTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return exceptions.BadRequest("A task ID must be provided in the URL path.")
	}

	task, found, err := h.taskService.GetTaskByID(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	if !found {
		zap.L().Debug("task not found", zap.String("task_id", id))
		return exceptions.ErrTaskNotFound
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) UpdateTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return exceptions.BadRequest("A task ID must be provided in the URL path.")
	}

	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return validators.BindError(err)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	input := services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Status != nil {
		status := constants.TaskStatus(*req.Status)
		input.Status = &status
	}

	task, found, err := h.taskService.UpdateTask(c.Request().Context(), middleware.UserID(c), id, input)
	if err != nil {
		return taskError(err)
	}
	if !found {
		zap.L().Debug("task not found for update", zap.String("task_id", id))
		return exceptions.ErrTaskNotFound
	}

	return c.JSON(http.StatusOK, task)
}

func (h *Handler) DeleteTask(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return exceptions.BadRequest("A task ID must be provided in the URL path.")
	}

	_, found, err := h.taskService.DeleteTask(c.Request().Context(), middleware.UserID(c), id)
	if err != nil {
		return err
	}
	if !found {
		zap.L().Debug("task not found for deletion", zap.String("task_id", id))
		return exceptions.ErrTaskNotFound
	}

	return c.NoContent(http.StatusNoContent)
}

// taskError maps lifecycle failures to their problem; anything else is a storage fault.
func taskError(err error) error {
	var transitionErr *services.InvalidTransitionError
	switch {
	case errors.Is(err, services.ErrDuplicateTask):
		return exceptions.Conflict("A task with the same title and description already exists for this user.")
	case errors.As(err, &transitionErr):
		return exceptions.BadRequest(fmt.Sprintf(
			"Invalid status transition from '%s' to '%s'.", transitionErr.From, transitionErr.To,
		))
	default:
		return err
	}
}
