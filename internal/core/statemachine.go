package core

import "github.com/valter-silva-au/ai-dev-team/pkg/models"

// taskTransitions lists every allowed task status change. Blocked is reachable
// from every other status and is handled in CanTransitionTask.
var taskTransitions = map[models.TaskStatus][]models.TaskStatus{
	models.StatusPending:    {models.StatusInProgress},
	models.StatusInProgress: {models.StatusCompleted, models.StatusFailed},
	models.StatusCompleted:  {models.StatusFailed},
	models.StatusFailed:     {models.StatusInProgress},
	models.StatusBlocked:    {models.StatusPending},
}

// bugTransitions lists every allowed bug status change.
var bugTransitions = map[models.BugStatus][]models.BugStatus{
	models.BugOpen:       {models.BugInProgress, models.BugResolved},
	models.BugInProgress: {models.BugResolved, models.BugOpen},
}

// CanTransitionTask reports whether a task may move from one status to another.
// Any status other than Blocked may move to Blocked. Blocked to Blocked is a
// self-transition, and self-transitions are always rejected, so a task that
// is already blocked is never blocked twice.
func CanTransitionTask(from, to models.TaskStatus) bool {
	if to == models.StatusBlocked {
		return from != models.StatusBlocked && isKnownStatus(from)
	}
	for _, allowed := range taskTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanTransitionBug reports whether a bug may move from one status to another.
func CanTransitionBug(from, to models.BugStatus) bool {
	for _, allowed := range bugTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func isKnownStatus(s models.TaskStatus) bool {
	for _, known := range models.TaskStatuses() {
		if s == known {
			return true
		}
	}
	return false
}
