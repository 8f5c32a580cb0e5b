package internal

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/valter-silva-au/ai-dev-team/internal/cli"
	"github.com/valter-silva-au/ai-dev-team/internal/core"
)

func TestResolveBasePath_ADTHomeSet(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("ADT_HOME", tmpDir)

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_FindsTeamConfig(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub", "nested")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, ".teamconfig.yaml"), []byte("log:\n  level: info\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(subDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADT_HOME", "")

	got, _ := filepath.EvalSymlinks(ResolveBasePath())
	want, _ := filepath.EvalSymlinks(tmpDir)
	if got != want {
		t.Errorf("ResolveBasePath() = %q, want %q (should find .teamconfig.yaml in parent)", got, want)
	}
}

func TestResolveBasePath_FallbackToCwd(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADT_HOME", "")

	got, _ := filepath.EvalSymlinks(ResolveBasePath())
	want, _ := filepath.EvalSymlinks(tmpDir)
	if got != want {
		t.Errorf("ResolveBasePath() = %q, want %q (should fall back to cwd)", got, want)
	}
}

func newTestApp(t *testing.T, config string) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	if config != "" {
		if err := os.WriteFile(filepath.Join(dir, ".teamconfig.yaml"), []byte(config), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	app, err := NewApp(dir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })
	return app, dir
}

func TestNewApp_Success(t *testing.T) {
	app, dir := newTestApp(t, "")

	if app.Config == nil || app.Config.Output.Dir != "output" {
		t.Errorf("expected default config, got %+v", app.Config)
	}
	if app.Projects == nil || app.Orchestrator == nil || app.TmplMgr == nil {
		t.Error("core services not wired")
	}
	if app.EventLog == nil || app.MetricsCalc == nil || app.AlertEngine == nil {
		t.Error("observability not wired")
	}
	if app.Notifier != nil {
		t.Error("Notifier should be nil without a webhook")
	}
	if cli.Projects != app.Projects || cli.Summaries != app.Summaries || cli.BasePath != dir {
		t.Error("cli package variables not wired")
	}
	if _, err := os.Stat(filepath.Join(dir, ".adt", "events.jsonl")); err != nil {
		t.Errorf("event log not created: %v", err)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".teamconfig.yaml"), []byte("task_id:\n  prefix: bad-prefix\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewApp(dir)
	if err == nil || !strings.Contains(err.Error(), "task_id.prefix") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewApp_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := "templates:\n  docs: missing/README.tmpl\n"
	if err := os.WriteFile(filepath.Join(dir, ".teamconfig.yaml"), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := NewApp(dir)
	if err == nil || !strings.Contains(err.Error(), "registering docs template") {
		t.Fatalf("expected template error, got %v", err)
	}
}

func TestNewApp_SlackNotifier(t *testing.T) {
	app, _ := newTestApp(t, "alerts:\n  slack_webhook_url: https://hooks.slack.example/T000\n  max_open_bugs: 7\n")
	if app.Notifier == nil {
		t.Error("Notifier should be set when a webhook is configured")
	}
	if app.Config.Alerts.MaxOpenBugs != 7 {
		t.Errorf("MaxOpenBugs = %d, want 7", app.Config.Alerts.MaxOpenBugs)
	}
}

func TestApp_DevelopArchivesRun(t *testing.T) {
	app, dir := newTestApp(t, "metrics:\n  textfile: adt.prom\n")

	run, err := app.Projects.Develop("Build a todo list app", core.DevelopOptions{})
	if err != nil {
		t.Fatalf("Develop() error = %v", err)
	}
	if !run.Summary.ProjectComplete() {
		t.Fatalf("expected complete project, progress %+v", run.Summary.Progress)
	}

	outDir := filepath.Join(dir, "output")
	for _, name := range []string{"index.html", "styles.css", "script.js", "README.md", ReportFile, "project_summary.yaml", "communications.md"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "adt.prom")); err != nil {
		t.Errorf("metrics textfile not written: %v", err)
	}
	if len(run.Written) != 8 {
		t.Errorf("Written = %v, want 8 paths", run.Written)
	}

	summary, err := app.Summaries.Load()
	if err != nil {
		t.Fatalf("Summaries.Load() error = %v", err)
	}
	if summary.RunID != run.Summary.RunID {
		t.Errorf("loaded run %q, want %q", summary.RunID, run.Summary.RunID)
	}

	log, err := app.Transcripts.Read()
	if err != nil {
		t.Fatalf("Transcripts.Read() error = %v", err)
	}
	if len(log) != len(run.Summary.Log) {
		t.Errorf("transcript has %d entries, want %d", len(log), len(run.Summary.Log))
	}

	metrics, err := app.MetricsCalc.Calculate(time.Time{})
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if metrics.TasksCreated != 4 {
		t.Errorf("TasksCreated = %d, want 4", metrics.TasksCreated)
	}
}

func TestApp_DevelopOutputOverride(t *testing.T) {
	app, dir := newTestApp(t, "")
	override := filepath.Join(dir, "elsewhere")

	run, err := app.Projects.Develop("Build a todo list app", core.DevelopOptions{OutputDir: override})
	if err != nil {
		t.Fatalf("Develop() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(override, "index.html")); err != nil {
		t.Errorf("index.html not written to override: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "output", "index.html")); !os.IsNotExist(err) {
		t.Errorf("generated files should only go to the override, stat err = %v", err)
	}
	// 4 files + report + summary + transcript, then summary + transcript again
	if len(run.Written) != 9 {
		t.Errorf("Written = %v, want 9 paths", run.Written)
	}
}

func TestApp_LastRunReadableAfterOutputOverride(t *testing.T) {
	app, dir := newTestApp(t, "")

	run, err := app.Projects.Develop("Build a todo list app", core.DevelopOptions{OutputDir: filepath.Join(dir, "elsewhere")})
	if err != nil {
		t.Fatalf("Develop() error = %v", err)
	}

	summary, err := app.Summaries.Load()
	if err != nil {
		t.Fatalf("Summaries.Load() error = %v", err)
	}
	if summary.RunID != run.Summary.RunID {
		t.Errorf("loaded run %q, want %q", summary.RunID, run.Summary.RunID)
	}

	log, err := app.Transcripts.Read()
	if err != nil {
		t.Fatalf("Transcripts.Read() error = %v", err)
	}
	if len(log) != len(run.Summary.Log) {
		t.Errorf("transcript has %d entries, want %d", len(log), len(run.Summary.Log))
	}
}

func TestApp_LatestRunWinsAcrossDirectories(t *testing.T) {
	app, dir := newTestApp(t, "")

	if _, err := app.Projects.Develop("Build a todo list app", core.DevelopOptions{}); err != nil {
		t.Fatalf("first Develop() error = %v", err)
	}
	second, err := app.Projects.Develop("Build another todo list app", core.DevelopOptions{OutputDir: filepath.Join(dir, "second")})
	if err != nil {
		t.Fatalf("second Develop() error = %v", err)
	}

	summary, err := app.Summaries.Load()
	if err != nil {
		t.Fatalf("Summaries.Load() error = %v", err)
	}
	if summary.RunID != second.Summary.RunID {
		t.Errorf("loaded run %q, want the latest run %q", summary.RunID, second.Summary.RunID)
	}
}

func TestApp_CloseWithoutEventLog(t *testing.T) {
	app := &App{}
	if err := app.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
