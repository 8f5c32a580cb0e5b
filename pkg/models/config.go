package models

// OutputConfig controls where a run's artifacts are written.
type OutputConfig struct {
	Dir                string `yaml:"dir" mapstructure:"dir"`
	SummaryFile        string `yaml:"summary_file" mapstructure:"summary_file"`
	CommunicationsFile string `yaml:"communications_file" mapstructure:"communications_file"`
}

// LogConfig selects the zap level and encoder.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AlertConfig holds alert thresholds and the optional Slack webhook used by
// adt alerts --notify. Zero thresholds fall back to the built-in defaults.
type AlertConfig struct {
	MaxFailurePercent float64 `yaml:"max_failure_percent" mapstructure:"max_failure_percent"`
	MaxOpenBugs       int     `yaml:"max_open_bugs" mapstructure:"max_open_bugs"`
	SlackWebhookURL   string  `yaml:"slack_webhook_url,omitempty" mapstructure:"slack_webhook_url"`
}

// TeamConfig holds system-wide settings read from .teamconfig via Viper.
type TeamConfig struct {
	Output          OutputConfig `yaml:"output" mapstructure:"output"`
	TaskIDPrefix    string       `yaml:"task_id_prefix" mapstructure:"task_id_prefix"`
	TaskIDPadWidth  int          `yaml:"task_id_pad_width" mapstructure:"task_id_pad_width"`
	BugIDPrefix     string       `yaml:"bug_id_prefix" mapstructure:"bug_id_prefix"`
	Log             LogConfig    `yaml:"log" mapstructure:"log"`
	EventLogPath    string       `yaml:"event_log_path" mapstructure:"event_log_path"`
	MetricsTextfile string       `yaml:"metrics_textfile,omitempty" mapstructure:"metrics_textfile"`
	Alerts          AlertConfig  `yaml:"alerts" mapstructure:"alerts"`
	// Templates maps a category to a custom artifact template file.
	Templates map[Category]string `yaml:"templates,omitempty" mapstructure:"templates"`
}
