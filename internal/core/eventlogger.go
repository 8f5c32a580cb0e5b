package core

// EventLogger is the subset of the observability event log that core
// services need. Defining it here avoids importing the observability package.
type EventLogger interface {
	LogEvent(eventType string, data map[string]any) error
}

// Event types emitted by ProjectMemory.
const (
	EventTaskCreated       = "task.created"
	EventTaskStatusChanged = "task.status_changed"
	EventBugCreated        = "bug.created"
	EventBugStatusChanged  = "bug.status_changed"
	EventFileRecorded      = "file.recorded"
	EventAgentAction       = "agent.action"
	EventCheckRecorded     = "check.recorded"
)
