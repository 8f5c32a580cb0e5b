package observability

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// PromRecorder turns project memory events into Prometheus counters. It
// owns a private registry so several recorders can coexist in tests.
type PromRecorder struct {
	registry *prometheus.Registry

	tasksCreated      *prometheus.CounterVec
	taskTransitions   *prometheus.CounterVec
	bugsCreated       *prometheus.CounterVec
	bugTransitions    *prometheus.CounterVec
	checks            *prometheus.CounterVec
	filesRecorded     prometheus.Counter
	agentActions      *prometheus.CounterVec
	unrecognizedEvent prometheus.Counter
}

// NewPromRecorder creates a PromRecorder with all counters registered.
func NewPromRecorder() *PromRecorder {
	r := &PromRecorder{
		registry: prometheus.NewRegistry(),
		tasksCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adt_tasks_created_total",
				Help: "Total number of tasks planned",
			},
			[]string{"category", "priority"},
		),
		taskTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adt_task_transitions_total",
				Help: "Total number of task status transitions",
			},
			[]string{"from", "to"},
		),
		bugsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adt_bugs_created_total",
				Help: "Total number of bug reports opened",
			},
			[]string{"severity"},
		),
		bugTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adt_bug_transitions_total",
				Help: "Total number of bug status transitions",
			},
			[]string{"to"},
		),
		checks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adt_qa_checks_total",
				Help: "Total number of QA checks by result",
			},
			[]string{"result"},
		),
		filesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adt_files_recorded_total",
			Help: "Total number of artifact writes into project memory",
		}),
		agentActions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "adt_agent_actions_total",
				Help: "Total number of agent actions by role, action and outcome",
			},
			[]string{"role", "action", "outcome"},
		),
		unrecognizedEvent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "adt_unrecognized_events_total",
			Help: "Events with a type the recorder does not track",
		}),
	}
	r.registry.MustRegister(
		r.tasksCreated, r.taskTransitions, r.bugsCreated, r.bugTransitions,
		r.checks, r.filesRecorded, r.agentActions, r.unrecognizedEvent,
	)
	return r
}

// LogEvent updates the counters for one event. It never fails.
func (r *PromRecorder) LogEvent(eventType string, data map[string]any) error {
	str := func(key string) string {
		v, _ := data[key].(string)
		return v
	}

	switch eventType {
	case "task.created":
		r.tasksCreated.WithLabelValues(str("category"), str("priority")).Inc()
	case "task.status_changed":
		r.taskTransitions.WithLabelValues(str("old_status"), str("new_status")).Inc()
	case "bug.created":
		r.bugsCreated.WithLabelValues(str("severity")).Inc()
	case "bug.status_changed":
		r.bugTransitions.WithLabelValues(str("new_status")).Inc()
	case "check.recorded":
		result := "failed"
		if passed, _ := data["passed"].(bool); passed {
			result = "passed"
		}
		r.checks.WithLabelValues(result).Inc()
	case "file.recorded":
		r.filesRecorded.Inc()
	case "agent.action":
		r.agentActions.WithLabelValues(str("role"), str("action"), str("outcome")).Inc()
	default:
		r.unrecognizedEvent.Inc()
	}
	return nil
}

// Gatherer exposes the recorder's registry.
func (r *PromRecorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteText writes the current counters to w in the text exposition format.
func (r *PromRecorder) WriteText(w io.Writer) error {
	families, err := r.Gatherer().Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encoding %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// WriteTextfile writes the current counters in the text exposition format,
// for pickup by the node exporter textfile collector.
func (r *PromRecorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
