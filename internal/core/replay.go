package core

import "github.com/valter-silva-au/ai-dev-team/pkg/models"

// ReplayResult is the task tally reconstructed from a communication log.
type ReplayResult struct {
	Planned   int
	Completed int
	Failed    int
	// Actions counts entries by action.
	Actions map[models.Action]int
}

// ReplayLog rebuilds the completed and failed task counts from a
// communication log alone. The last reported outcome of each task wins:
// an implemented task counts as completed until a verification says
// otherwise, and an unsupported task counts as failed.
func ReplayLog(log []models.Communication) ReplayResult {
	r := ReplayResult{Actions: make(map[models.Action]int)}
	state := make(map[string]models.TaskStatus)

	for _, e := range log {
		r.Actions[e.Action]++
		switch e.Action {
		case models.ActionPlan:
			r.Planned += len(e.TaskIDs)
		case models.ActionImplement:
			switch e.Outcome {
			case models.OutcomeImplemented:
				state[e.TaskID] = models.StatusCompleted
			case models.OutcomeUnsupported:
				state[e.TaskID] = models.StatusFailed
			}
		case models.ActionVerify:
			switch e.Outcome {
			case models.OutcomePassed:
				state[e.TaskID] = models.StatusCompleted
			case models.OutcomeFailed:
				state[e.TaskID] = models.StatusFailed
			}
		}
	}

	for _, s := range state {
		switch s {
		case models.StatusCompleted:
			r.Completed++
		case models.StatusFailed:
			r.Failed++
		}
	}
	return r
}
