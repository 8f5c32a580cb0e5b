package observability

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromRecorder_CountsEvents(t *testing.T) {
	r := NewPromRecorder()

	events := []struct {
		typ  string
		data map[string]any
	}{
		{"task.created", map[string]any{"category": "structure", "priority": "critical"}},
		{"task.status_changed", map[string]any{"old_status": "pending", "new_status": "in_progress"}},
		{"task.status_changed", map[string]any{"old_status": "in_progress", "new_status": "completed"}},
		{"bug.created", map[string]any{"severity": "high"}},
		{"check.recorded", map[string]any{"passed": true}},
		{"check.recorded", map[string]any{"passed": true}},
		{"check.recorded", map[string]any{"passed": false}},
		{"file.recorded", map[string]any{"file": "index.html"}},
		{"agent.action", map[string]any{"role": "qa_tester", "action": "verify", "outcome": "passed"}},
		{"something.else", nil},
	}
	for _, e := range events {
		if err := r.LogEvent(e.typ, e.data); err != nil {
			t.Fatalf("LogEvent(%s) error: %v", e.typ, err)
		}
	}

	if got := testutil.ToFloat64(r.tasksCreated.WithLabelValues("structure", "critical")); got != 1 {
		t.Errorf("tasks created = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.taskTransitions.WithLabelValues("in_progress", "completed")); got != 1 {
		t.Errorf("in_progress->completed = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.bugsCreated.WithLabelValues("high")); got != 1 {
		t.Errorf("bugs created = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.checks.WithLabelValues("passed")); got != 2 {
		t.Errorf("passed checks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.checks.WithLabelValues("failed")); got != 1 {
		t.Errorf("failed checks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.filesRecorded); got != 1 {
		t.Errorf("files recorded = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.agentActions.WithLabelValues("qa_tester", "verify", "passed")); got != 1 {
		t.Errorf("agent actions = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.unrecognizedEvent); got != 1 {
		t.Errorf("unrecognized = %v, want 1", got)
	}
}

func TestPromRecorder_WriteTextfile(t *testing.T) {
	r := NewPromRecorder()
	_ = r.LogEvent("file.recorded", map[string]any{"file": "README.md"})

	path := filepath.Join(t.TempDir(), "adt.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading textfile: %v", err)
	}
	if !strings.Contains(string(data), "adt_files_recorded_total 1") {
		t.Errorf("textfile missing counter:\n%s", data)
	}
}

func TestPromRecorder_Gatherer(t *testing.T) {
	r := NewPromRecorder()
	_ = r.LogEvent("task.created", map[string]any{"category": "docs", "priority": "low"})

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "adt_tasks_created_total" {
			found = true
		}
	}
	if !found {
		t.Error("expected adt_tasks_created_total family")
	}
}

func TestPromRecorder_WriteText(t *testing.T) {
	r := NewPromRecorder()
	_ = r.LogEvent("bug.created", map[string]any{"severity": "critical"})

	var buf strings.Builder
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `adt_bugs_created_total{severity="critical"} 1`) {
		t.Errorf("output missing bug counter:\n%s", out)
	}
	if !strings.Contains(out, "# TYPE adt_files_recorded_total counter") {
		t.Errorf("output missing TYPE line:\n%s", out)
	}
}
