package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/valter-silva-au/ai-dev-team/internal/storage"
	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

var statusFilter string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the tasks, bugs and team of the last run",
	Long: `Display the most recent run grouped by task status.

Optionally filter to a single status using --filter (e.g. --filter failed).
Open bugs and the team's capabilities are listed after the tasks.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Summaries == nil {
			return fmt.Errorf("summary store not initialized")
		}
		if statusFilter != "" && !validTaskStatus(statusFilter) {
			return fmt.Errorf("invalid --filter %q: must be one of pending, in_progress, completed, failed, blocked", statusFilter)
		}

		summary, err := Summaries.Load()
		if errors.Is(err, storage.ErrNoSummary) {
			fmt.Fprintln(cmd.OutOrStdout(), "No runs yet. Start one with: adt develop \"<requirements>\"")
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading summary: %w", err)
		}

		printStatus(cmd.OutOrStdout(), *summary, models.TaskStatus(statusFilter))
		return nil
	},
}

// printStatus writes the summary grouped by status. An empty filter prints
// every group plus bugs and team.
func printStatus(w io.Writer, s models.RunSummary, filter models.TaskStatus) {
	p := s.Progress
	fmt.Fprintln(w, titleStyle.Render(" Run "+s.RunID+" "))
	fmt.Fprintf(w, "%d/%d tasks completed (%.1f%%), %d open bug(s), %d file(s)\n\n",
		p.Completed, p.Total, p.Percent, p.OpenBugs, p.FilesCreated)

	grouped := make(map[models.TaskStatus][]models.Task)
	for _, t := range s.Tasks {
		grouped[t.Status] = append(grouped[t.Status], t)
	}

	for _, status := range models.TaskStatuses() {
		if filter != "" && status != filter {
			continue
		}
		group := grouped[status]
		if len(group) == 0 && filter == "" {
			continue
		}
		printStatusGroup(w, status, group)
		fmt.Fprintln(w)
	}
	if filter != "" {
		return
	}

	var open []models.BugReport
	for _, b := range s.Bugs {
		if b.IsOpen() {
			open = append(open, b)
		}
	}
	if len(open) > 0 {
		fmt.Fprintf(w, "== OPEN BUGS (%d) ==\n", len(open))
		for _, b := range open {
			sev := styleForSeverity(string(b.Severity)).Render(fmt.Sprintf("%-8s", b.Severity))
			fmt.Fprintf(w, "  %-10s %s %-10s %s\n", b.ID, sev, b.TaskID, b.Title)
		}
		fmt.Fprintln(w)
	}

	if len(s.Team) > 0 {
		fmt.Fprintln(w, "== TEAM ==")
		for _, a := range s.Team {
			fmt.Fprintf(w, "  %-16s %s\n", a.Name, strings.Join(a.Capabilities, ", "))
		}
	}
}

// printStatusGroup prints a table of tasks under a status heading.
func printStatusGroup(w io.Writer, status models.TaskStatus, tasks []models.Task) {
	heading := fmt.Sprintf("== %s (%d) ==", strings.ToUpper(string(status)), len(tasks))
	fmt.Fprintln(w, styleForStatus(string(status)).Render(heading))
	fmt.Fprintf(w, "  %-12s %-9s %-10s %s\n", "ID", "PRIORITY", "CATEGORY", "TITLE")
	fmt.Fprintf(w, "  %-12s %-9s %-10s %s\n", "----", "--------", "--------", "-----")
	for _, task := range tasks {
		fmt.Fprintf(w, "  %-12s %-9s %-10s %s\n", task.ID, task.Priority, task.Category, task.Title)
	}
}

func validTaskStatus(s string) bool {
	for _, st := range models.TaskStatuses() {
		if string(st) == s {
			return true
		}
	}
	return false
}

// Shared styles for status output and the dashboard.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	statusPending    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusInProgress = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	statusCompleted  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	statusFailed     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusBlocked    = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))

	severityCritical = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true).Underline(true)
	severityHigh     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	severityMedium   = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	severityLow      = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

func styleForStatus(status string) lipgloss.Style {
	switch models.TaskStatus(status) {
	case models.StatusPending:
		return statusPending
	case models.StatusInProgress:
		return statusInProgress
	case models.StatusCompleted:
		return statusCompleted
	case models.StatusFailed:
		return statusFailed
	case models.StatusBlocked:
		return statusBlocked
	default:
		return lipgloss.NewStyle()
	}
}

func styleForSeverity(severity string) lipgloss.Style {
	switch strings.ToLower(severity) {
	case "critical":
		return severityCritical
	case "high":
		return severityHigh
	case "medium":
		return severityMedium
	case "low":
		return severityLow
	default:
		return lipgloss.NewStyle()
	}
}

func init() {
	statusCmd.Flags().StringVar(&statusFilter, "filter", "", "Filter by status (pending, in_progress, completed, failed, blocked)")
	rootCmd.AddCommand(statusCmd)
}
