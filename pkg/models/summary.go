package models

import "time"

// Progress is a point-in-time view derived from a project's tasks and bugs.
type Progress struct {
	Total        int     `yaml:"total" json:"total"`
	Completed    int     `yaml:"completed" json:"completed"`
	Failed       int     `yaml:"failed" json:"failed"`
	Blocked      int     `yaml:"blocked" json:"blocked"`
	Percent      float64 `yaml:"percent" json:"percent"`
	OpenBugs     int     `yaml:"open_bugs" json:"open_bugs"`
	CriticalBugs int     `yaml:"critical_bugs" json:"critical_bugs"`
	ChecksPassed int     `yaml:"checks_passed" json:"checks_passed"`
	ChecksFailed int     `yaml:"checks_failed" json:"checks_failed"`
	FilesCreated int     `yaml:"files_created" json:"files_created"`
}

// AgentProfile describes one team member for reporting.
type AgentProfile struct {
	Role         AgentRole `yaml:"role" json:"role"`
	Name         string    `yaml:"name" json:"name"`
	Capabilities []string  `yaml:"capabilities" json:"capabilities"`
}

// RunSummary is the final record of a development run. It is built once at
// the end of the run and handed to callers by value.
type RunSummary struct {
	RunID        string          `yaml:"run_id" json:"run_id"`
	Requirements string          `yaml:"requirements" json:"requirements"`
	Started      time.Time       `yaml:"started" json:"started"`
	Finished     time.Time       `yaml:"finished" json:"finished"`
	Progress     Progress        `yaml:"progress" json:"progress"`
	Files        []string        `yaml:"files" json:"files"`
	Tasks        []Task          `yaml:"tasks" json:"tasks"`
	Bugs         []BugReport     `yaml:"bugs" json:"bugs"`
	Checks       []CheckResult   `yaml:"checks" json:"checks"`
	Integration  []CheckResult   `yaml:"integration" json:"integration"`
	Log          []Communication `yaml:"communication_log" json:"communication_log"`
	Team         []AgentProfile  `yaml:"team" json:"team"`
}

// ProjectComplete reports whether every planned task completed.
func (s RunSummary) ProjectComplete() bool {
	return s.Progress.Total > 0 && s.Progress.Completed == s.Progress.Total
}
