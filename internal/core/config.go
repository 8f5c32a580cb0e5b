// Package core contains the business logic for AI Dev Team: the shared
// project memory, the task and bug state machines, the three team agents,
// the orchestrator that drives a development run, and configuration.
package core

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// validPrefixPattern matches uppercase alphanumeric prefixes between 1 and 10 characters.
var validPrefixPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}$`)

// ConfigurationManager loads and validates the .teamconfig file.
type ConfigurationManager interface {
	LoadConfig() (*models.TeamConfig, error)
	ValidateConfig(cfg *models.TeamConfig) error
}

// viperConfigManager implements ConfigurationManager using Viper for
// reading YAML configuration files.
type viperConfigManager struct {
	// basePath is the root directory where .teamconfig resides.
	basePath string
}

// NewConfigurationManager creates a new ConfigurationManager that reads
// .teamconfig from basePath.
func NewConfigurationManager(basePath string) ConfigurationManager {
	return &viperConfigManager{basePath: basePath}
}

// DefaultConfig returns a TeamConfig populated with defaults.
func DefaultConfig() *models.TeamConfig {
	return &models.TeamConfig{
		Output: models.OutputConfig{
			Dir:                "output",
			SummaryFile:        "project_summary.yaml",
			CommunicationsFile: "communications.md",
		},
		TaskIDPrefix:   "TASK",
		TaskIDPadWidth: 5,
		BugIDPrefix:    "BUG",
		Log: models.LogConfig{
			Level:  "info",
			Format: "console",
		},
		EventLogPath: ".adt/events.jsonl",
		Alerts: models.AlertConfig{
			MaxFailurePercent: 25,
			MaxOpenBugs:       3,
		},
	}
}

// LoadConfig reads .teamconfig from the base path. If the file does not
// exist, defaults are returned.
func (cm *viperConfigManager) LoadConfig() (*models.TeamConfig, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName(".teamconfig")
	v.SetConfigType("yaml")
	v.AddConfigPath(cm.basePath)

	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.summary_file", cfg.Output.SummaryFile)
	v.SetDefault("output.communications_file", cfg.Output.CommunicationsFile)
	v.SetDefault("task_id.prefix", cfg.TaskIDPrefix)
	v.SetDefault("task_id.pad_width", cfg.TaskIDPadWidth)
	v.SetDefault("bug_id.prefix", cfg.BugIDPrefix)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("events.path", cfg.EventLogPath)
	v.SetDefault("metrics.textfile", cfg.MetricsTextfile)
	v.SetDefault("alerts.max_failure_percent", cfg.Alerts.MaxFailurePercent)
	v.SetDefault("alerts.max_open_bugs", cfg.Alerts.MaxOpenBugs)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading .teamconfig: %w", err)
	}

	cfg.Output.Dir = v.GetString("output.dir")
	cfg.Output.SummaryFile = v.GetString("output.summary_file")
	cfg.Output.CommunicationsFile = v.GetString("output.communications_file")
	cfg.TaskIDPrefix = v.GetString("task_id.prefix")
	cfg.BugIDPrefix = v.GetString("bug_id.prefix")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Format = v.GetString("log.format")
	cfg.EventLogPath = v.GetString("events.path")
	cfg.MetricsTextfile = v.GetString("metrics.textfile")
	cfg.Alerts.MaxFailurePercent = v.GetFloat64("alerts.max_failure_percent")
	cfg.Alerts.MaxOpenBugs = v.GetInt("alerts.max_open_bugs")
	cfg.Alerts.SlackWebhookURL = v.GetString("alerts.slack_webhook_url")

	// Use IsSet to distinguish "not set" (use default 5) from "explicitly set to 0".
	if v.IsSet("task_id.pad_width") {
		cfg.TaskIDPadWidth = v.GetInt("task_id.pad_width")
	}

	templatesRaw := v.GetStringMapString("templates")
	if len(templatesRaw) > 0 {
		cfg.Templates = make(map[models.Category]string, len(templatesRaw))
		for k, val := range templatesRaw {
			cfg.Templates[models.Category(k)] = val
		}
	}

	return cfg, nil
}

// validLogLevels is the set of accepted log.level values.
var validLogLevels = map[string]bool{
	"debug":   true,
	"info":    true,
	"warn":    true,
	"warning": true,
	"error":   true,
}

// ValidateConfig checks cfg for invalid values and reports every problem
// in a single error.
func (cm *viperConfigManager) ValidateConfig(cfg *models.TeamConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration is nil")
	}

	var errs []string

	if strings.TrimSpace(cfg.Output.Dir) == "" {
		errs = append(errs, "output.dir must not be empty")
	}
	if strings.TrimSpace(cfg.Output.SummaryFile) == "" {
		errs = append(errs, "output.summary_file must not be empty")
	}

	for key, prefix := range map[string]string{"task_id.prefix": cfg.TaskIDPrefix, "bug_id.prefix": cfg.BugIDPrefix} {
		if !validPrefixPattern.MatchString(prefix) {
			errs = append(errs, fmt.Sprintf("%s %q is invalid, must match [A-Z0-9]{1,10}", key, prefix))
		}
	}
	if cfg.TaskIDPrefix != "" && cfg.TaskIDPrefix == cfg.BugIDPrefix {
		errs = append(errs, fmt.Sprintf("task_id.prefix and bug_id.prefix must differ, both are %q", cfg.TaskIDPrefix))
	}

	if cfg.TaskIDPadWidth < 0 || cfg.TaskIDPadWidth > 10 {
		errs = append(errs, fmt.Sprintf(
			"task_id.pad_width %d is invalid, must be between 0 and 10",
			cfg.TaskIDPadWidth,
		))
	}

	if !validLogLevels[strings.ToLower(cfg.Log.Level)] {
		errs = append(errs, fmt.Sprintf(
			"log.level %q is invalid, must be one of: debug, info, warning, error",
			cfg.Log.Level,
		))
	}
	if cfg.Log.Format != "console" && cfg.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format %q is invalid, must be console or json", cfg.Log.Format))
	}

	if cfg.Alerts.MaxFailurePercent < 0 || cfg.Alerts.MaxFailurePercent > 100 {
		errs = append(errs, fmt.Sprintf(
			"alerts.max_failure_percent %g is invalid, must be between 0 and 100",
			cfg.Alerts.MaxFailurePercent,
		))
	}
	if cfg.Alerts.MaxOpenBugs < 0 {
		errs = append(errs, fmt.Sprintf("alerts.max_open_bugs %d is invalid, must not be negative", cfg.Alerts.MaxOpenBugs))
	}

	for category := range cfg.Templates {
		if !category.Valid() {
			errs = append(errs, fmt.Sprintf(
				"templates key %q is not a valid category, must be one of: structure, style, behavior, docs",
				category,
			))
		}
	}

	if len(errs) > 0 {
		sort.Strings(errs)
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}
