package observability

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var notifyTime = time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)

func captureServer(t *testing.T, status int) (*httptest.Server, *[]byte) {
	t.Helper()
	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("reading request body: %v", err)
		}
		body = b
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, &body
}

func TestSlackNotifier_NoAlerts(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)
	n := NewSlackNotifier(srv.URL)

	if err := n.Notify(nil); err != nil {
		t.Fatalf("Notify(nil) error = %v", err)
	}
	if err := n.Notify([]Alert{}); err != nil {
		t.Fatalf("Notify(empty) error = %v", err)
	}
	if *body != nil {
		t.Fatal("expected no HTTP request for empty alerts")
	}
}

func TestSlackNotifier_GroupsByCondition(t *testing.T) {
	srv, body := captureServer(t, http.StatusOK)
	alerts := []Alert{
		{ID: "blocked-TASK-00002", Condition: "task_blocked", Severity: SeverityMedium,
			Message: "task TASK-00002 is blocked by an unfinished dependency", TriggeredAt: notifyTime},
		{ID: "critical-BUG-00001", Condition: "critical_bug_open", Severity: SeverityHigh,
			Message: "critical bug BUG-00001 against TASK-00001 is unresolved", TriggeredAt: notifyTime},
		{ID: "blocked-TASK-00003", Condition: "task_blocked", Severity: SeverityMedium,
			Message: "task TASK-00003 is blocked by an unfinished dependency", TriggeredAt: notifyTime},
	}

	if err := NewSlackNotifier(srv.URL).Notify(alerts); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}

	var msg slackMessage
	if err := json.Unmarshal(*body, &msg); err != nil {
		t.Fatalf("decoding request body: %v", err)
	}
	if msg.Text != "AI Dev Team: 3 active alert(s)" {
		t.Errorf("Text = %q", msg.Text)
	}

	// header, (divider, section) x 2 conditions, context
	wantTypes := []string{"header", "divider", "section", "divider", "section", "context"}
	if len(msg.Blocks) != len(wantTypes) {
		t.Fatalf("got %d blocks, want %d", len(msg.Blocks), len(wantTypes))
	}
	for i, want := range wantTypes {
		if msg.Blocks[i].Type != want {
			t.Errorf("block %d type = %q, want %q", i, msg.Blocks[i].Type, want)
		}
	}

	first := msg.Blocks[2].Text.Text
	if !strings.HasPrefix(first, "*Critical bugs*") {
		t.Errorf("most severe condition should come first, got %q", first)
	}
	second := msg.Blocks[4].Text.Text
	if !strings.Contains(second, "TASK-00002") || !strings.Contains(second, "TASK-00003") {
		t.Errorf("blocked section should list both tasks, got %q", second)
	}
	if !strings.Contains(msg.Blocks[5].Elements[0].Text, "2026-10-16 09:30 UTC") {
		t.Errorf("context should carry the evaluation time, got %q", msg.Blocks[5].Elements[0].Text)
	}
}

func TestSlackNotifier_UnknownConditionUsesRawName(t *testing.T) {
	msg := buildSlackMessage([]Alert{{Condition: "custom_check", Severity: SeverityLow, Message: "x", TriggeredAt: notifyTime}})
	if got := msg.Blocks[2].Text.Text; !strings.HasPrefix(got, "*custom_check*") {
		t.Errorf("section = %q", got)
	}
}

func TestSlackNotifier_ServerError(t *testing.T) {
	srv, _ := captureServer(t, http.StatusInternalServerError)

	err := NewSlackNotifier(srv.URL).Notify([]Alert{{Condition: "critical_bug_open", Severity: SeverityHigh, Message: "m", TriggeredAt: notifyTime}})
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") {
		t.Errorf("error should carry the status code, got %q", err.Error())
	}
}

func TestSlackNotifier_AcceptsNoContent(t *testing.T) {
	srv, _ := captureServer(t, http.StatusNoContent)

	if err := NewSlackNotifier(srv.URL).Notify([]Alert{{Condition: "task_blocked", Severity: SeverityMedium, Message: "m", TriggeredAt: notifyTime}}); err != nil {
		t.Errorf("204 should be accepted, got %v", err)
	}
}

func TestSlackNotifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	err := NewSlackNotifier(url).Notify([]Alert{{Condition: "task_blocked", Severity: SeverityMedium, Message: "m", TriggeredAt: notifyTime}})
	if err == nil || !strings.Contains(err.Error(), "posting to slack webhook") {
		t.Errorf("expected post error, got %v", err)
	}
}

func TestSeverityEmoji(t *testing.T) {
	tests := map[AlertSeverity]string{
		SeverityHigh:   ":red_circle:",
		SeverityMedium: ":large_yellow_circle:",
		SeverityLow:    ":large_blue_circle:",
		"unknown":      ":grey_question:",
	}
	for sev, want := range tests {
		if got := severityEmoji(sev); got != want {
			t.Errorf("severityEmoji(%q) = %q, want %q", sev, got, want)
		}
	}
}
