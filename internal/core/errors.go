package core

import (
	"fmt"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// NotFoundError reports a task or bug id that does not exist in the project
// memory. It always indicates a caller bug.
type NotFoundError struct {
	Kind string // "task" or "bug"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InvalidTransitionError reports a status change that the task or bug state
// machine does not allow.
type InvalidTransitionError struct {
	Kind string
	ID   string
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s %s: invalid transition %s -> %s", e.Kind, e.ID, e.From, e.To)
}

// UnsupportedTaskError is returned by the coder when asked to implement a
// task whose category has no template.
type UnsupportedTaskError struct {
	TaskID   string
	Category models.Category
}

func (e *UnsupportedTaskError) Error() string {
	return fmt.Sprintf("task %s: unsupported category %q", e.TaskID, e.Category)
}

// PlanningFailedError aborts a run when the project manager produced no tasks.
type PlanningFailedError struct {
	Reason string
}

func (e *PlanningFailedError) Error() string {
	if e.Reason == "" {
		return "planning failed: no tasks produced"
	}
	return "planning failed: " + e.Reason
}
