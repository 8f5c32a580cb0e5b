// Package internal provides the App struct that wires all components of the
// AI Dev Team system together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/valter-silva-au/ai-dev-team/internal/cli"
	"github.com/valter-silva-au/ai-dev-team/internal/core"
	"github.com/valter-silva-au/ai-dev-team/internal/logging"
	"github.com/valter-silva-au/ai-dev-team/internal/observability"
	"github.com/valter-silva-au/ai-dev-team/internal/storage"
	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// ReportFile is the name of the plain-text completion report written next
// to a run's generated files.
const ReportFile = "project_report.txt"

// App holds all service dependencies for the AI Dev Team system.
type App struct {
	BasePath string
	Config   *models.TeamConfig
	Logger   *zap.Logger

	// Configuration
	ConfigMgr core.ConfigurationManager

	// Storage layer
	Summaries   storage.SummaryStore
	Transcripts storage.TranscriptStore
	Archive     core.RunArchive

	// Core services
	TmplMgr      core.TemplateManager
	Orchestrator core.Orchestrator
	Projects     core.ProjectService

	// Observability
	EventLog    observability.EventLog
	Recorder    *observability.PromRecorder
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
	Notifier    observability.Notifier
}

// NewApp creates and wires all components of the AI Dev Team system.
// basePath is the directory holding .teamconfig.yaml; relative paths in the
// configuration are resolved against it.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	app.Logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	// --- Templates ---
	app.TmplMgr = core.NewTemplateManager(basePath)
	for category, path := range cfg.Templates {
		if err := app.TmplMgr.RegisterTemplate(category, path); err != nil {
			return nil, fmt.Errorf("registering %s template: %w", category, err)
		}
	}

	// --- Observability ---
	app.Recorder = observability.NewPromRecorder()
	app.EventLog, err = observability.NewJSONLEventLog(resolvePath(basePath, cfg.EventLogPath))
	if err != nil {
		// Non-fatal: runs still work without the event log.
		app.Logger.Warn("event log disabled", zap.Error(err))
		app.EventLog = nil
	}
	if app.EventLog != nil {
		thresholds := observability.DefaultAlertThresholds()
		if cfg.Alerts.MaxFailurePercent > 0 {
			thresholds.MaxFailurePercent = cfg.Alerts.MaxFailurePercent
		}
		if cfg.Alerts.MaxOpenBugs > 0 {
			thresholds.MaxOpenBugs = cfg.Alerts.MaxOpenBugs
		}
		app.AlertEngine = observability.NewAlertEngine(app.EventLog, thresholds)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}
	if cfg.Alerts.SlackWebhookURL != "" {
		app.Notifier = observability.NewSlackNotifier(cfg.Alerts.SlackWebhookURL)
	}

	// --- Storage layer ---
	outputDir := resolvePath(basePath, cfg.Output.Dir)
	app.Summaries = storage.NewSummaryStore(outputDir, cfg.Output.SummaryFile)
	app.Transcripts = storage.NewTranscriptStore(outputDir, cfg.Output.CommunicationsFile)
	app.Archive = &runArchiveAdapter{basePath: basePath, cfg: cfg, recorder: app.Recorder}

	// --- Core services ---
	events := &eventFanout{log: app.EventLog, recorder: app.Recorder, logger: app.Logger}
	app.Orchestrator = core.NewOrchestrator(
		core.NewProjectManager(),
		core.NewCoder(app.TmplMgr),
		core.NewQA(),
		core.OrchestratorOptions{
			Logger: app.Logger,
			Memory: core.MemoryOptions{
				TaskIDs: core.NewIDGenerator(cfg.TaskIDPrefix, cfg.TaskIDPadWidth),
				BugIDs:  core.NewIDGenerator(cfg.BugIDPrefix, cfg.TaskIDPadWidth),
				Events:  events,
			},
		},
	)
	app.Projects = core.NewProjectService(app.Orchestrator, app.Archive, app.Logger)

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = cfg
	cli.Projects = app.Projects
	cli.TmplMgr = app.TmplMgr
	cli.Summaries = app.Summaries
	cli.Transcripts = app.Transcripts

	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc
	cli.Notifier = app.Notifier

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.Logger != nil {
		_ = logging.Sync(a.Logger)
	}
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

// ResolveBasePath determines the base path for the AI Dev Team workspace.
// It checks for the ADT_HOME env var, then the nearest ancestor of the
// current directory containing .teamconfig.yaml, then falls back to the
// current directory.
func ResolveBasePath() string {
	if home := os.Getenv("ADT_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".teamconfig.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}

func resolvePath(basePath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// --- Adapters ---

// eventFanout adapts the event log, the Prometheus recorder and the debug
// logger to core.EventLogger.
type eventFanout struct {
	log      observability.EventLog
	recorder *observability.PromRecorder
	logger   *zap.Logger
}

func (f *eventFanout) LogEvent(eventType string, data map[string]any) error {
	f.logger.Debug("event", zap.String("type", eventType), zap.Any("data", data))
	if f.recorder != nil {
		_ = f.recorder.LogEvent(eventType, data)
	}
	if f.log == nil {
		return nil
	}
	return f.log.Write(observability.NewEvent(eventType, data))
}

// runArchiveAdapter adapts the storage layer to core.RunArchive. A run is
// archived as its generated files, the completion report, the YAML summary,
// the markdown transcript and, when configured, a metrics textfile. A run
// written elsewhere also leaves its summary and transcript in the
// configured output directory.
type runArchiveAdapter struct {
	basePath string
	cfg      *models.TeamConfig
	recorder *observability.PromRecorder
}

func (a *runArchiveAdapter) Archive(run *core.Run, dir string) ([]string, error) {
	defaultDir := resolvePath(a.basePath, a.cfg.Output.Dir)
	if dir == "" {
		dir = defaultDir
	}
	dir = resolvePath(a.basePath, dir)

	files := make(map[string]string, len(run.Files)+1)
	for name, content := range run.Files {
		files[name] = content
	}
	files[ReportFile] = core.RenderReport(run.Summary)

	written, err := a.archiveInto(dir, func() ([]string, error) {
		return storage.NewArtifactWriter(dir).WriteFiles(files)
	}, run)
	if err != nil {
		return written, err
	}

	// The configured directory always holds the latest summary and
	// transcript, which status, report, log and the MCP read tools load.
	if filepath.Clean(dir) != filepath.Clean(defaultDir) {
		records, err := a.archiveInto(defaultDir, nil, run)
		written = append(written, records...)
		if err != nil {
			return written, err
		}
	}

	if a.cfg.MetricsTextfile != "" && a.recorder != nil {
		path := resolvePath(a.basePath, a.cfg.MetricsTextfile)
		if err := a.recorder.WriteTextfile(path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// archiveInto locks dir, runs writeFiles if set, then saves the run's
// summary and transcript there.
func (a *runArchiveAdapter) archiveInto(dir string, writeFiles func() ([]string, error), run *core.Run) ([]string, error) {
	unlock, err := storage.LockDir(dir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = unlock() }()

	var written []string
	if writeFiles != nil {
		if written, err = writeFiles(); err != nil {
			return written, err
		}
	}

	summaries := storage.NewSummaryStore(dir, a.cfg.Output.SummaryFile)
	if err := summaries.Save(run.Summary); err != nil {
		return written, err
	}
	written = append(written, summaries.Path())

	if err := storage.NewTranscriptStore(dir, a.cfg.Output.CommunicationsFile).Write(run.Summary.Log); err != nil {
		return written, err
	}
	return append(written, filepath.Join(dir, a.cfg.Output.CommunicationsFile)), nil
}
