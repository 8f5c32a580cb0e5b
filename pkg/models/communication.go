package models

import "time"

// Action names the agent capability that produced a communication entry.
type Action string

const (
	ActionPlan      Action = "plan"
	ActionImplement Action = "implement"
	ActionVerify    Action = "verify"
	ActionReport    Action = "report"
	ActionNote      Action = "note"
)

// Outcome is the result an agent reported for its action.
type Outcome string

const (
	OutcomePlanned     Outcome = "planned"
	OutcomeImplemented Outcome = "implemented"
	OutcomeUnsupported Outcome = "unsupported"
	OutcomePassed      Outcome = "passed"
	OutcomeFailed      Outcome = "failed"
	OutcomeReported    Outcome = "reported"
)

// Communication is one entry of the team's chronological communication log.
// Every agent invocation appends exactly one entry.
type Communication struct {
	Time    time.Time `yaml:"time" json:"time"`
	Role    AgentRole `yaml:"role" json:"role"`
	Action  Action    `yaml:"action" json:"action"`
	TaskID  string    `yaml:"task_id,omitempty" json:"task_id,omitempty"`
	Outcome Outcome   `yaml:"outcome,omitempty" json:"outcome,omitempty"`
	Message string    `yaml:"message" json:"message"`
	// TaskIDs lists the plan produced by a plan action.
	TaskIDs []string `yaml:"task_ids,omitempty" json:"task_ids,omitempty"`
}

// CheckResult is the outcome of a single static QA check.
type CheckResult struct {
	Name    string   `yaml:"name" json:"name"`
	TaskID  string   `yaml:"task_id,omitempty" json:"task_id,omitempty"`
	File    string   `yaml:"file" json:"file"`
	Passed  bool     `yaml:"passed" json:"passed"`
	Message string   `yaml:"message" json:"message"`
	Kind    Category `yaml:"category,omitempty" json:"category,omitempty"`
}
