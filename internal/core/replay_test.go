package core

import (
	"testing"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

func TestReplayLog_LastOutcomeWins(t *testing.T) {
	log := []models.Communication{
		{Role: models.RoleProjectManager, Action: models.ActionPlan, TaskIDs: []string{"TASK-00001", "TASK-00002", "TASK-00003"}},
		{Role: models.RoleCoder, Action: models.ActionImplement, TaskID: "TASK-00001", Outcome: models.OutcomeImplemented},
		{Role: models.RoleQA, Action: models.ActionVerify, TaskID: "TASK-00001", Outcome: models.OutcomeFailed},
		{Role: models.RoleCoder, Action: models.ActionImplement, TaskID: "TASK-00001", Outcome: models.OutcomeImplemented},
		{Role: models.RoleQA, Action: models.ActionVerify, TaskID: "TASK-00001", Outcome: models.OutcomePassed},
		{Role: models.RoleCoder, Action: models.ActionImplement, TaskID: "TASK-00002", Outcome: models.OutcomeUnsupported},
		{Role: models.RoleProjectManager, Action: models.ActionReport, Outcome: models.OutcomeReported},
	}

	r := ReplayLog(log)
	if r.Planned != 3 || r.Completed != 1 || r.Failed != 1 {
		t.Errorf("ReplayLog() = %+v", r)
	}
	if r.Actions[models.ActionImplement] != 3 || r.Actions[models.ActionVerify] != 2 {
		t.Errorf("Actions = %v", r.Actions)
	}
}

func TestReplayLog_Empty(t *testing.T) {
	r := ReplayLog(nil)
	if r.Planned != 0 || r.Completed != 0 || r.Failed != 0 || len(r.Actions) != 0 {
		t.Errorf("ReplayLog(nil) = %+v", r)
	}
}

func TestReplayLog_IgnoresNotes(t *testing.T) {
	r := ReplayLog([]models.Communication{
		{Role: models.RoleCoder, Action: models.ActionNote, TaskID: "TASK-00001", Message: "thinking"},
	})
	if r.Completed != 0 || r.Failed != 0 || r.Actions[models.ActionNote] != 1 {
		t.Errorf("ReplayLog() = %+v", r)
	}
}
