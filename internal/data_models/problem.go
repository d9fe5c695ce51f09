package dto

import "task-tracker.com/task-tracker/internal/exceptions"

// Problem is an RFC 7807 problem details body.
type Problem struct {
	Type     string             `json:"type"`
	Title    string             `json:"title"`
	Status   int                `json:"status"`
	Detail   string             `json:"detail"`
	Instance string             `json:"instance,omitempty"`
	Issues   []exceptions.Issue `json:"issues,omitempty"`
}

func NewProblem(e *exceptions.Exception, instance string) Problem {
	return Problem{
		Type:     e.Type,
		Title:    e.Title,
		Status:   e.StatusCode,
		Detail:   e.Detail,
		Instance: instance,
		Issues:   e.Issues,
	}
}
