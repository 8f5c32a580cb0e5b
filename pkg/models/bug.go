package models

import "time"

// Severity classifies how badly a defect affects the deliverable.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Rank returns 1 for critical through 4 for low. Unknown severities rank 5.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 1
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 3
	case SeverityLow:
		return 4
	}
	return 5
}

// BugStatus is the resolution state of a bug report.
type BugStatus string

const (
	BugOpen       BugStatus = "open"
	BugInProgress BugStatus = "in_progress"
	BugResolved   BugStatus = "resolved"
)

// BugReport is a defect record raised when verification of a task fails.
type BugReport struct {
	ID               string     `yaml:"id" json:"id"`
	TaskID           string     `yaml:"task_id" json:"task_id"`
	Title            string     `yaml:"title" json:"title"`
	Description      string     `yaml:"description" json:"description"`
	Severity         Severity   `yaml:"severity" json:"severity"`
	Status           BugStatus  `yaml:"status" json:"status"`
	File             string     `yaml:"file,omitempty" json:"file,omitempty"`
	StepsToReproduce []string   `yaml:"steps_to_reproduce,omitempty" json:"steps_to_reproduce,omitempty"`
	ExpectedResult   string     `yaml:"expected_result,omitempty" json:"expected_result,omitempty"`
	ActualResult     string     `yaml:"actual_result,omitempty" json:"actual_result,omitempty"`
	Created          time.Time  `yaml:"created" json:"created"`
	Resolved         *time.Time `yaml:"resolved,omitempty" json:"resolved,omitempty"`
	FixNotes         string     `yaml:"fix_notes,omitempty" json:"fix_notes,omitempty"`
}

// IsOpen reports whether the bug still needs work.
func (b BugReport) IsOpen() bool {
	return b.Status != BugResolved
}

// IsCritical reports whether the bug has critical severity.
func (b BugReport) IsCritical() bool {
	return b.Severity == SeverityCritical
}
