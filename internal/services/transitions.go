package services

import (
	"fmt"

	"task-tracker.com/task-tracker/pkg/constants"
)

// There is no terminal status: archived tasks can be reopened.
var allowedTransitions = map[constants.TaskStatus][]constants.TaskStatus{
	constants.StatusTodo:       {constants.StatusInProgress, constants.StatusDone, constants.StatusArchived},
	constants.StatusInProgress: {constants.StatusTodo, constants.StatusDone, constants.StatusArchived},
	constants.StatusDone:       {constants.StatusTodo, constants.StatusArchived},
	constants.StatusArchived:   {constants.StatusTodo},
}

// InvalidTransitionError reports a status change the lifecycle does not allow.
type InvalidTransitionError struct {
	From constants.TaskStatus
	To   constants.TaskStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %q to %q", e.From, e.To)
}

// CanTransition reports whether a task may move from one status to another.
// Staying in the same status is always allowed.
func CanTransition(from, to constants.TaskStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
