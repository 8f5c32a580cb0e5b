package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// RenderReport formats a run summary as the plain-text completion report
// written next to the generated files.
func RenderReport(s models.RunSummary) string {
	var b strings.Builder
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(&b, rule)
	fmt.Fprintln(&b, "PROJECT COMPLETION REPORT")
	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Run:       %s\n", s.RunID)
	fmt.Fprintf(&b, "Started:   %s\n", s.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Finished:  %s\n", s.Finished.Format("2006-01-02 15:04:05"))
	status := "INCOMPLETE"
	if s.ProjectComplete() {
		status = "COMPLETE"
	}
	fmt.Fprintf(&b, "Status:    %s\n\n", status)

	p := s.Progress
	fmt.Fprintln(&b, "PROGRESS")
	fmt.Fprintf(&b, "  Tasks:         %d/%d completed (%.1f%%)\n", p.Completed, p.Total, p.Percent)
	fmt.Fprintf(&b, "  Failed:        %d\n", p.Failed)
	fmt.Fprintf(&b, "  Blocked:       %d\n", p.Blocked)
	fmt.Fprintf(&b, "  Open bugs:     %d (%d critical)\n", p.OpenBugs, p.CriticalBugs)
	fmt.Fprintf(&b, "  Files created: %d\n\n", p.FilesCreated)

	fmt.Fprintln(&b, "TASKS")
	for _, t := range s.Tasks {
		fmt.Fprintf(&b, "  %-12s %-11s %-9s %s\n", t.ID, t.Status, t.Priority, t.Title)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "FILES")
	for _, f := range s.Files {
		fmt.Fprintf(&b, "  - %s\n", f)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "QUALITY ASSURANCE")
	fmt.Fprintf(&b, "  Checks passed: %d\n", p.ChecksPassed)
	fmt.Fprintf(&b, "  Checks failed: %d\n", p.ChecksFailed)
	for _, c := range s.Checks {
		if !c.Passed {
			fmt.Fprintf(&b, "  FAIL %s [%s] %s: %s\n", c.TaskID, c.File, c.Name, c.Message)
		}
	}
	for _, c := range s.Integration {
		mark := "PASS"
		if !c.Passed {
			mark = "FAIL"
		}
		fmt.Fprintf(&b, "  %s integration: %s\n", mark, c.Name)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "BUGS")
	if len(s.Bugs) == 0 {
		fmt.Fprintln(&b, "  none")
	}
	for _, bug := range s.Bugs {
		fmt.Fprintf(&b, "  %s %-8s %-11s %s (%s)\n", bug.ID, bug.Severity, bug.Status, bug.Title, bug.TaskID)
	}
	fmt.Fprintln(&b)

	fmt.Fprintln(&b, "TEAM")
	for _, a := range s.Team {
		fmt.Fprintf(&b, "  %s: %s\n", a.Name, strings.Join(a.Capabilities, ", "))
	}
	fmt.Fprintf(&b, "\nCommunication log: %d entries\n", len(s.Log))
	return b.String()
}
