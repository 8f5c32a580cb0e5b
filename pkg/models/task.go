package models

import "time"

// Category is the kind of deliverable a task produces. The set is closed:
// agents switch over it exhaustively.
type Category string

const (
	CategoryStructure Category = "structure"
	CategoryStyle     Category = "style"
	CategoryBehavior  Category = "behavior"
	CategoryDocs      Category = "docs"
)

// Categories returns every known category in planning order.
func Categories() []Category {
	return []Category{CategoryStructure, CategoryStyle, CategoryBehavior, CategoryDocs}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryStructure, CategoryStyle, CategoryBehavior, CategoryDocs:
		return true
	}
	return false
}

// TaskStatus represents the current lifecycle state of a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusFailed     TaskStatus = "failed"
	StatusBlocked    TaskStatus = "blocked"
)

// TaskStatuses returns all task statuses in lifecycle order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusFailed, StatusBlocked}
}

// IsTerminal reports whether a task in this status carries a completion timestamp.
func (s TaskStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns 1 for the most urgent priority and 4 for the least.
// Unknown priorities rank last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 1
	case PriorityHigh:
		return 2
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 4
	}
	return 5
}

// AgentRole identifies which member of the team performed an action.
type AgentRole string

const (
	RoleProjectManager AgentRole = "project_manager"
	RoleCoder          AgentRole = "coder"
	RoleQA             AgentRole = "qa_tester"
)

// DisplayName returns the human-readable role name.
func (r AgentRole) DisplayName() string {
	switch r {
	case RoleProjectManager:
		return "Project Manager"
	case RoleCoder:
		return "Developer"
	case RoleQA:
		return "QA Tester"
	}
	return "Unknown Role"
}

// Task is a unit of planned work identified by a TASK-XXXXX id.
type Task struct {
	ID              string     `yaml:"id" json:"id"`
	Title           string     `yaml:"title" json:"title"`
	Description     string     `yaml:"description" json:"description"`
	Category        Category   `yaml:"category" json:"category"`
	Status          TaskStatus `yaml:"status" json:"status"`
	Priority        Priority   `yaml:"priority" json:"priority"`
	AssignedTo      AgentRole  `yaml:"assigned_to" json:"assigned_to"`
	DependsOn       []string   `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Created         time.Time  `yaml:"created" json:"created"`
	Updated         time.Time  `yaml:"updated" json:"updated"`
	Completed       *time.Time `yaml:"completed,omitempty" json:"completed,omitempty"`
	CompletionNotes string     `yaml:"completion_notes,omitempty" json:"completion_notes,omitempty"`
	Files           []string   `yaml:"files,omitempty" json:"files,omitempty"`
}

// ReadyToStart reports whether every dependency appears in completed.
func (t Task) ReadyToStart(completed map[string]bool) bool {
	for _, dep := range t.DependsOn {
		if !completed[dep] {
			return false
		}
	}
	return true
}
