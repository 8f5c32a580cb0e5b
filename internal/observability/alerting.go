package observability

import (
	"fmt"
	"sort"
	"time"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	ID          string        `json:"id"`
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts should fire.
type AlertThresholds struct {
	// MaxFailurePercent is the share of finished tasks allowed to end Failed.
	MaxFailurePercent float64 `yaml:"max_failure_percent" json:"max_failure_percent"`
	MaxOpenBugs       int     `yaml:"max_open_bugs" json:"max_open_bugs"`
}

// DefaultAlertThresholds returns sensible defaults for alert thresholds.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{
		MaxFailurePercent: 25,
		MaxOpenBugs:       3,
	}
}

// AlertEngine evaluates alert conditions against the event log.
type AlertEngine interface {
	Evaluate() ([]Alert, error)
}

// alertEngine implements AlertEngine by replaying task and bug events.
type alertEngine struct {
	eventLog   EventLog
	thresholds AlertThresholds
	now        func() time.Time
}

// NewAlertEngine creates a new AlertEngine with the given EventLog and thresholds.
func NewAlertEngine(eventLog EventLog, thresholds AlertThresholds) AlertEngine {
	return &alertEngine{
		eventLog:   eventLog,
		thresholds: thresholds,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

type bugState struct {
	taskID   string
	severity string
	status   string
}

// Evaluate replays the event log into the latest task and bug states and
// checks every alert condition against them.
func (ae *alertEngine) Evaluate() ([]Alert, error) {
	events, err := ae.eventLog.Read(EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("reading events for alerts: %w", err)
	}

	tasks := make(map[string]string)
	bugs := make(map[string]*bugState)
	for _, event := range events {
		str := func(key string) string {
			v, _ := event.Data[key].(string)
			return v
		}
		switch event.Type {
		case "task.created":
			if id := str("task_id"); id != "" {
				tasks[id] = "pending"
			}
		case "task.status_changed":
			if id, to := str("task_id"), str("new_status"); id != "" && to != "" {
				tasks[id] = to
			}
		case "bug.created":
			if id := str("bug_id"); id != "" {
				bugs[id] = &bugState{taskID: str("task_id"), severity: str("severity"), status: "open"}
			}
		case "bug.status_changed":
			if b, ok := bugs[str("bug_id")]; ok {
				b.status = str("new_status")
			}
		}
	}

	now := ae.now()
	var alerts []Alert
	alerts = append(alerts, ae.checkCriticalBugs(bugs, now)...)
	alerts = append(alerts, ae.checkFailureRate(tasks, now)...)
	alerts = append(alerts, ae.checkBlockedTasks(tasks, now)...)
	alerts = append(alerts, ae.checkOpenBugs(bugs, now)...)
	return alerts, nil
}

// checkCriticalBugs raises one alert per unresolved critical bug.
func (ae *alertEngine) checkCriticalBugs(bugs map[string]*bugState, now time.Time) []Alert {
	var alerts []Alert
	for _, id := range sortedKeys(bugs) {
		b := bugs[id]
		if b.severity == "critical" && b.status != "resolved" {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("critical-%s", id),
				Condition:   "critical_bug_open",
				Severity:    SeverityHigh,
				Message:     fmt.Sprintf("critical bug %s against %s is unresolved", id, b.taskID),
				TriggeredAt: now,
			})
		}
	}
	return alerts
}

// checkFailureRate compares failed tasks with all finished tasks.
func (ae *alertEngine) checkFailureRate(tasks map[string]string, now time.Time) []Alert {
	completed, failed := 0, 0
	for _, status := range tasks {
		switch status {
		case "completed":
			completed++
		case "failed":
			failed++
		}
	}
	finished := completed + failed
	if finished == 0 {
		return nil
	}
	rate := float64(failed) / float64(finished) * 100
	if rate <= ae.thresholds.MaxFailurePercent {
		return nil
	}
	return []Alert{{
		ID:          "failure-rate",
		Condition:   "failure_rate_high",
		Severity:    SeverityHigh,
		Message:     fmt.Sprintf("%d of %d finished tasks failed (%.1f%%, limit %.1f%%)", failed, finished, rate, ae.thresholds.MaxFailurePercent),
		TriggeredAt: now,
	}}
}

// checkBlockedTasks raises one alert per task still Blocked.
func (ae *alertEngine) checkBlockedTasks(tasks map[string]string, now time.Time) []Alert {
	var alerts []Alert
	for _, id := range sortedKeys(tasks) {
		if tasks[id] == "blocked" {
			alerts = append(alerts, Alert{
				ID:          fmt.Sprintf("blocked-%s", id),
				Condition:   "task_blocked",
				Severity:    SeverityMedium,
				Message:     fmt.Sprintf("task %s is blocked by an unfinished dependency", id),
				TriggeredAt: now,
			})
		}
	}
	return alerts
}

// checkOpenBugs counts unresolved bugs and alerts if over the threshold.
func (ae *alertEngine) checkOpenBugs(bugs map[string]*bugState, now time.Time) []Alert {
	open := 0
	for _, b := range bugs {
		if b.status != "resolved" {
			open++
		}
	}
	if open <= ae.thresholds.MaxOpenBugs {
		return nil
	}
	return []Alert{{
		ID:          "open-bugs",
		Condition:   "too_many_open_bugs",
		Severity:    SeverityLow,
		Message:     fmt.Sprintf("%d bugs are unresolved, exceeding the maximum of %d", open, ae.thresholds.MaxOpenBugs),
		TriggeredAt: now,
	}}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
