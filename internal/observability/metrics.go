package observability

import (
	"fmt"
	"time"
)

// Metrics holds calculated metrics derived from the event log.
type Metrics struct {
	TasksCreated    int            `json:"tasks_created"`
	TasksCompleted  int            `json:"tasks_completed"`
	TasksFailed     int            `json:"tasks_failed"`
	TasksBlocked    int            `json:"tasks_blocked"`
	TasksByCategory map[string]int `json:"tasks_by_category"`
	BugsOpened      int            `json:"bugs_opened"`
	BugsResolved    int            `json:"bugs_resolved"`
	BugsBySeverity  map[string]int `json:"bugs_by_severity"`
	ChecksPassed    int            `json:"checks_passed"`
	ChecksFailed    int            `json:"checks_failed"`
	FilesRecorded   int            `json:"files_recorded"`
	AgentActions    map[string]int `json:"agent_actions"`
	EventCount      int            `json:"event_count"`
	OldestEvent     *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent     *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

// metricsCalculator implements MetricsCalculator by reading from an EventLog.
type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a new MetricsCalculator that reads from the given EventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads all events since the given time and aggregates them into
// metrics. Status counters count transitions, so a task that failed once
// and then completed contributes to both.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		TasksByCategory: make(map[string]int),
		BugsBySeverity:  make(map[string]int),
		AgentActions:    make(map[string]int),
	}

	m.EventCount = len(events)

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case "task.created":
			m.TasksCreated++
			if category, ok := event.Data["category"].(string); ok {
				m.TasksByCategory[category]++
			}
		case "task.status_changed":
			switch event.Data["new_status"] {
			case "completed":
				m.TasksCompleted++
			case "failed":
				m.TasksFailed++
			case "blocked":
				m.TasksBlocked++
			}
		case "bug.created":
			m.BugsOpened++
			if severity, ok := event.Data["severity"].(string); ok {
				m.BugsBySeverity[severity]++
			}
		case "bug.status_changed":
			if event.Data["new_status"] == "resolved" {
				m.BugsResolved++
			}
		case "check.recorded":
			if passed, _ := event.Data["passed"].(bool); passed {
				m.ChecksPassed++
			} else {
				m.ChecksFailed++
			}
		case "file.recorded":
			m.FilesRecorded++
		case "agent.action":
			role, _ := event.Data["role"].(string)
			action, _ := event.Data["action"].(string)
			m.AgentActions[role+"."+action]++
		}
	}

	return m, nil
}
