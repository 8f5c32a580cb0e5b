package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

func sampleLog() []models.Communication {
	ts := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	return []models.Communication{
		{Time: ts, Role: models.RoleProjectManager, Action: models.ActionPlan, Outcome: models.OutcomePlanned,
			Message: "Created 4 tasks for the project", TaskIDs: []string{"TASK-00001", "TASK-00002"}},
		{Time: ts.Add(time.Second), Role: models.RoleCoder, Action: models.ActionImplement, TaskID: "TASK-00001",
			Outcome: models.OutcomeImplemented, Message: "Completed task TASK-00001"},
		{Time: ts.Add(2 * time.Second), Role: models.RoleQA, Action: models.ActionVerify, TaskID: "TASK-00001",
			Outcome: models.OutcomeFailed, Message: "Verification failed\nsecond line"},
		{Time: ts.Add(3 * time.Second), Role: models.RoleProjectManager, Action: models.ActionNote, Message: "plain note"},
	}
}

func TestFormatTranscript(t *testing.T) {
	out := FormatTranscript(sampleLog())

	if !strings.HasPrefix(out, "# Team Communication Log\n") {
		t.Errorf("missing title: %q", out[:40])
	}
	for _, want := range []string{
		"## 2026-10-16T09:30:00Z project_manager plan",
		"**Tasks:** TASK-00001, TASK-00002",
		"**Task:** TASK-00001",
		"**Outcome:** implemented",
		"Verification failed\nsecond line",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("transcript missing %q", want)
		}
	}
}

func TestTranscriptStore_WriteRead(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), "communications.md")
	want := sampleLog()

	if err := store.Write(want); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	got, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		w, g := want[i], got[i]
		if !g.Time.Equal(w.Time) || g.Role != w.Role || g.Action != w.Action ||
			g.TaskID != w.TaskID || g.Outcome != w.Outcome || g.Message != w.Message {
			t.Errorf("entry %d = %+v, want %+v", i, g, w)
		}
		if len(g.TaskIDs) != len(w.TaskIDs) {
			t.Errorf("entry %d TaskIDs = %v, want %v", i, g.TaskIDs, w.TaskIDs)
		}
	}
}

func TestTranscriptStore_ReadMissing(t *testing.T) {
	store := NewTranscriptStore(t.TempDir(), "communications.md")
	got, err := store.Read()
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil log, got %v", got)
	}
}

func TestParseTranscript_HeadingInsideMessage(t *testing.T) {
	ts := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	want := []models.Communication{
		{Time: ts, Role: models.RoleCoder, Action: models.ActionImplement,
			Message: "Wrote README.md\n## Usage\nrun it\n\\## literal"},
		{Time: ts.Add(time.Second), Role: models.RoleQA, Action: models.ActionVerify, Message: "## starts with heading"},
	}

	got := ParseTranscript(FormatTranscript(want))
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Message != want[i].Message {
			t.Errorf("entry %d message = %q, want %q", i, got[i].Message, want[i].Message)
		}
		if got[i].Role != want[i].Role {
			t.Errorf("entry %d role = %q, want %q", i, got[i].Role, want[i].Role)
		}
	}
}
