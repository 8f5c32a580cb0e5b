package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/valter-silva-au/ai-dev-team/internal/observability"
)

var (
	metricsJSON  bool
	metricsProm  bool
	metricsSince string
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display task, bug and agent metrics",
	Long: `Display aggregated metrics derived from the event log.

Metrics include task outcomes by category, bugs by severity, QA check
results and the number of actions each agent performed.

With --prom the events in the window are replayed into Prometheus counters
and printed in the text exposition format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sinceTime, err := parseSinceDuration(metricsSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}

		if metricsProm {
			return writePromMetrics(cmd.OutOrStdout(), sinceTime)
		}

		if MetricsCalc == nil {
			return fmt.Errorf("metrics calculator not initialized (event log may be disabled)")
		}

		metrics, err := MetricsCalc.Calculate(sinceTime)
		if err != nil {
			return fmt.Errorf("calculating metrics: %w", err)
		}

		out := cmd.OutOrStdout()
		if metricsJSON {
			data, err := json.MarshalIndent(metrics, "", "  ")
			if err != nil {
				return fmt.Errorf("formatting metrics as JSON: %w", err)
			}
			fmt.Fprintln(out, string(data))
			return nil
		}

		printMetrics(out, metrics, sinceTime)
		return nil
	},
}

func writePromMetrics(w io.Writer, since time.Time) error {
	if EventLog == nil {
		return fmt.Errorf("event log not initialized")
	}
	events, err := EventLog.Read(observability.EventFilter{Since: &since})
	if err != nil {
		return fmt.Errorf("reading events: %w", err)
	}
	rec := observability.NewPromRecorder()
	for _, e := range events {
		_ = rec.LogEvent(e.Type, e.Data)
	}
	return rec.WriteText(w)
}

func printMetrics(w io.Writer, m *observability.Metrics, since time.Time) {
	fmt.Fprintf(w, "Metrics (since %s)\n\n", since.Format("2006-01-02"))
	fmt.Fprintf(w, "  %-24s %d\n", "Events recorded:", m.EventCount)
	fmt.Fprintf(w, "  %-24s %d\n", "Tasks created:", m.TasksCreated)
	fmt.Fprintf(w, "  %-24s %d\n", "Tasks completed:", m.TasksCompleted)
	fmt.Fprintf(w, "  %-24s %d\n", "Tasks failed:", m.TasksFailed)
	fmt.Fprintf(w, "  %-24s %d\n", "Tasks blocked:", m.TasksBlocked)
	fmt.Fprintf(w, "  %-24s %d\n", "Bugs opened:", m.BugsOpened)
	fmt.Fprintf(w, "  %-24s %d\n", "Bugs resolved:", m.BugsResolved)
	fmt.Fprintf(w, "  %-24s %d/%d\n", "Checks passed:", m.ChecksPassed, m.ChecksPassed+m.ChecksFailed)
	fmt.Fprintf(w, "  %-24s %d\n", "Files recorded:", m.FilesRecorded)

	printCounts(w, "Tasks by category:", m.TasksByCategory)
	printCounts(w, "Bugs by severity:", m.BugsBySeverity)
	printCounts(w, "Agent actions:", m.AgentActions)

	if m.OldestEvent != nil {
		fmt.Fprintf(w, "\n  %-24s %s\n", "Oldest event:", m.OldestEvent.Format(time.RFC3339))
	}
	if m.NewestEvent != nil {
		fmt.Fprintf(w, "  %-24s %s\n", "Newest event:", m.NewestEvent.Format(time.RFC3339))
	}
}

func printCounts(w io.Writer, heading string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(w, "\n  %s\n", heading)
	for _, k := range keys {
		fmt.Fprintf(w, "    %-20s %d\n", k+":", counts[k])
	}
}

// parseSinceDuration parses a human-friendly duration string like "7d", "30d",
// or "24h" and returns the corresponding time in the past.
func parseSinceDuration(s string) (time.Time, error) {
	now := time.Now().UTC()
	s = strings.TrimSpace(s)
	if s == "" {
		return now.AddDate(0, 0, -7), nil
	}

	if strings.HasSuffix(s, "d") {
		days, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil || days < 1 {
			return time.Time{}, fmt.Errorf("invalid day duration %q", s)
		}
		return now.AddDate(0, 0, -days), nil
	}

	if strings.HasSuffix(s, "h") {
		hours, err := strconv.Atoi(strings.TrimSuffix(s, "h"))
		if err != nil || hours < 1 {
			return time.Time{}, fmt.Errorf("invalid hour duration %q", s)
		}
		return now.Add(-time.Duration(hours) * time.Hour), nil
	}

	return time.Time{}, fmt.Errorf("unsupported duration format %q (use e.g. 7d, 30d, 24h)", s)
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Output metrics as JSON")
	metricsCmd.Flags().BoolVar(&metricsProm, "prom", false, "Output metrics in the Prometheus text format")
	metricsCmd.Flags().StringVar(&metricsSince, "since", "7d", "Time window for metrics (e.g. 7d, 30d, 24h)")
	rootCmd.AddCommand(metricsCmd)
}
