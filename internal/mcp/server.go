// Package mcp provides an MCP (Model Context Protocol) server that exposes
// adt runs, their summaries and observability data as MCP tools.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/ai-dev-team/internal/core"
	"github.com/valter-silva-au/ai-dev-team/internal/observability"
	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// SummaryLoader returns the summary of the most recent run.
type SummaryLoader interface {
	Load() (*models.RunSummary, error)
}

// Server wraps adt services and exposes them as MCP tools.
type Server struct {
	server      *gomcp.Server
	projects    core.ProjectService
	summaries   SummaryLoader
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
}

// NewServer creates a new MCP server. metricsCalc and alertEngine may be nil
// if the event log is unavailable.
func NewServer(projects core.ProjectService, summaries SummaryLoader, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		projects:    projects,
		summaries:   summaries,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "adt", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client
// disconnects or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type getSummaryInput struct{}

type progressOutput struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Failed       int     `json:"failed"`
	Blocked      int     `json:"blocked"`
	Percent      float64 `json:"percent"`
	OpenBugs     int     `json:"open_bugs"`
	CriticalBugs int     `json:"critical_bugs"`
	FilesCreated int     `json:"files_created"`
}

type summaryOutput struct {
	RunID           string         `json:"run_id"`
	Started         string         `json:"started"`
	Finished        string         `json:"finished"`
	ProjectComplete bool           `json:"project_complete"`
	Progress        progressOutput `json:"progress"`
	Files           []string       `json:"files"`
	LogEntries      int            `json:"log_entries"`
}

type listTasksInput struct {
	Status string `json:"status,omitempty" jsonschema:"filter tasks by status (pending, in_progress, completed, failed, blocked)"`
}

type taskOutput struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Category  string   `json:"category"`
	Status    string   `json:"status"`
	Priority  string   `json:"priority"`
	DependsOn []string `json:"depends_on,omitempty"`
	Files     []string `json:"files,omitempty"`
	Notes     string   `json:"notes,omitempty"`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type listBugsInput struct {
	OpenOnly bool `json:"open_only,omitempty" jsonschema:"only return bugs that are not resolved"`
}

type bugOutput struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Title    string `json:"title"`
	Severity string `json:"severity"`
	Status   string `json:"status"`
	File     string `json:"file,omitempty"`
}

type listBugsOutput struct {
	Bugs  []bugOutput `json:"bugs"`
	Count int         `json:"count"`
}

type developProjectInput struct {
	Requirements string `json:"requirements" jsonschema:"required,free-text project requirements; bullet lines become features"`
	OutputDir    string `json:"output_dir,omitempty" jsonschema:"directory to write generated files into (defaults to the configured output dir)"`
}

type developProjectOutput struct {
	Summary summaryOutput `json:"summary"`
	Written []string      `json:"written"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
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
	AgentActions    map[string]int `json:"agent_actions"`
	EventCount      int            `json:"event_count"`
	OldestEvent     string         `json:"oldest_event,omitempty"`
	NewestEvent     string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	ID          string `json:"id"`
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "develop_project",
		Description: "Run the team on free-text requirements: plan, implement, verify and report. Writes the generated files and returns the run summary.",
	}, s.handleDevelopProject)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_summary",
		Description: "Get the summary of the most recent run: progress counters, generated files and completion state.",
	}, s.handleGetSummary)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List the tasks of the most recent run with an optional status filter.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_bugs",
		Description: "List the bug reports QA raised in the most recent run.",
	}, s.handleListBugs)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: task outcomes, bugs by severity, QA checks and agent actions.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (open critical bugs, high failure rate, blocked tasks, too many open bugs).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleDevelopProject(_ context.Context, _ *gomcp.CallToolRequest, input developProjectInput) (*gomcp.CallToolResult, developProjectOutput, error) {
	if s.projects == nil {
		return errorResult("project service not available"), developProjectOutput{}, nil
	}

	run, err := s.projects.Develop(input.Requirements, core.DevelopOptions{OutputDir: input.OutputDir})
	if err != nil {
		var planErr *core.PlanningFailedError
		if errors.As(err, &planErr) {
			return errorResult(fmt.Sprintf("%s: requirements must not be empty", err)), developProjectOutput{}, nil
		}
		return errorResult(fmt.Sprintf("developing project: %s", err)), developProjectOutput{}, nil
	}

	out := developProjectOutput{
		Summary: summaryToOutput(run.Summary),
		Written: run.Written,
	}
	if out.Written == nil {
		out.Written = []string{}
	}
	return nil, out, nil
}

func (s *Server) handleGetSummary(_ context.Context, _ *gomcp.CallToolRequest, _ getSummaryInput) (*gomcp.CallToolResult, summaryOutput, error) {
	summary, res := s.loadSummary()
	if res != nil {
		return res, summaryOutput{}, nil
	}
	return nil, summaryToOutput(*summary), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	if input.Status != "" && !validStatus(input.Status) {
		return errorResult(fmt.Sprintf("invalid status %q: must be one of pending, in_progress, completed, failed, blocked", input.Status)), listTasksOutput{}, nil
	}

	summary, res := s.loadSummary()
	if res != nil {
		return res, listTasksOutput{}, nil
	}

	out := listTasksOutput{Tasks: []taskOutput{}}
	for _, t := range summary.Tasks {
		if input.Status != "" && string(t.Status) != input.Status {
			continue
		}
		out.Tasks = append(out.Tasks, taskOutput{
			ID:        t.ID,
			Title:     t.Title,
			Category:  string(t.Category),
			Status:    string(t.Status),
			Priority:  string(t.Priority),
			DependsOn: t.DependsOn,
			Files:     t.Files,
			Notes:     t.CompletionNotes,
		})
	}
	out.Count = len(out.Tasks)

	return nil, out, nil
}

func (s *Server) handleListBugs(_ context.Context, _ *gomcp.CallToolRequest, input listBugsInput) (*gomcp.CallToolResult, listBugsOutput, error) {
	summary, res := s.loadSummary()
	if res != nil {
		return res, listBugsOutput{}, nil
	}

	out := listBugsOutput{Bugs: []bugOutput{}}
	for _, b := range summary.Bugs {
		if input.OpenOnly && !b.IsOpen() {
			continue
		}
		out.Bugs = append(out.Bugs, bugOutput{
			ID:       b.ID,
			TaskID:   b.TaskID,
			Title:    b.Title,
			Severity: string(b.Severity),
			Status:   string(b.Status),
			File:     b.File,
		})
	}
	out.Count = len(out.Bugs)

	return nil, out, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (event log may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := ParseSince(sinceStr, time.Now().UTC())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		TasksCreated:    metrics.TasksCreated,
		TasksCompleted:  metrics.TasksCompleted,
		TasksFailed:     metrics.TasksFailed,
		TasksBlocked:    metrics.TasksBlocked,
		TasksByCategory: metrics.TasksByCategory,
		BugsOpened:      metrics.BugsOpened,
		BugsResolved:    metrics.BugsResolved,
		BugsBySeverity:  metrics.BugsBySeverity,
		ChecksPassed:    metrics.ChecksPassed,
		ChecksFailed:    metrics.ChecksFailed,
		AgentActions:    metrics.AgentActions,
		EventCount:      metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (event log may be disabled)"), getAlertsOutput{}, nil
	}

	alerts, err := s.alertEngine.Evaluate()
	if err != nil {
		return errorResult(fmt.Sprintf("evaluating alerts: %s", err)), getAlertsOutput{}, nil
	}

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			ID:          a.ID,
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

// loadSummary returns the latest summary, or an error result for the caller.
func (s *Server) loadSummary() (*models.RunSummary, *gomcp.CallToolResult) {
	if s.summaries == nil {
		return nil, errorResult("summary store not available")
	}
	summary, err := s.summaries.Load()
	if err != nil {
		return nil, errorResult(fmt.Sprintf("loading summary: %s (run develop_project first)", err))
	}
	return summary, nil
}

func summaryToOutput(s models.RunSummary) summaryOutput {
	p := s.Progress
	files := s.Files
	if files == nil {
		files = []string{}
	}
	return summaryOutput{
		RunID:           s.RunID,
		Started:         s.Started.Format(time.RFC3339),
		Finished:        s.Finished.Format(time.RFC3339),
		ProjectComplete: s.ProjectComplete(),
		Progress: progressOutput{
			Total:        p.Total,
			Completed:    p.Completed,
			Failed:       p.Failed,
			Blocked:      p.Blocked,
			Percent:      p.Percent,
			OpenBugs:     p.OpenBugs,
			CriticalBugs: p.CriticalBugs,
			FilesCreated: p.FilesCreated,
		},
		Files:      files,
		LogEntries: len(s.Log),
	}
}

func validStatus(s string) bool {
	for _, st := range models.TaskStatuses() {
		if string(st) == s {
			return true
		}
	}
	return false
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		TasksByCategory: make(map[string]int),
		BugsBySeverity:  make(map[string]int),
		AgentActions:    make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// ParseSince parses a human-friendly duration string like "7d", "30d", or
// "24h" into the corresponding time before now.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	num, err := strconv.Atoi(numStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if num < 1 {
		return time.Time{}, fmt.Errorf("invalid duration %q: must be at least 1", s)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
