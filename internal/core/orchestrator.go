package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// maxRetries bounds how many times a task that failed verification is
// handed back to the coder.
const maxRetries = 1

// TaskOutcome is the tagged result of driving one task through the
// implement and verify loop.
type TaskOutcome string

const (
	TaskOutcomeCompleted     TaskOutcome = "completed"
	TaskOutcomeFailedWithBug TaskOutcome = "failed_with_bug"
)

// TaskResult describes how one task finished.
type TaskResult struct {
	TaskID   string
	Outcome  TaskOutcome
	BugID    string
	Attempts int
}

// Run is everything a development run produces: the summary and the
// generated files, which the caller is responsible for writing out.
type Run struct {
	Summary models.RunSummary
	Files   map[string]string
	Results []TaskResult
	// Written lists the paths a RunArchive produced, if any.
	Written []string
}

// Orchestrator drives a development run through its four phases.
type Orchestrator interface {
	DevelopProject(requirements string) (*Run, error)
}

// OrchestratorOptions configures an Orchestrator. A nil Logger disables
// milestone logging.
type OrchestratorOptions struct {
	Logger *zap.Logger
	Memory MemoryOptions
	// NewRunID defaults to uuid.NewString.
	NewRunID func() string
}

type orchestrator struct {
	planner  Planner
	coder    Implementer
	qa       Verifier
	logger   *zap.Logger
	memOpts  MemoryOptions
	newRunID func() string
}

// NewOrchestrator creates an Orchestrator over the three team members.
func NewOrchestrator(planner Planner, coder Implementer, qa Verifier, opts OrchestratorOptions) Orchestrator {
	o := &orchestrator{
		planner:  planner,
		coder:    coder,
		qa:       qa,
		logger:   opts.Logger,
		memOpts:  opts.Memory,
		newRunID: opts.NewRunID,
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.newRunID == nil {
		o.newRunID = uuid.NewString
	}
	if o.memOpts.Now == nil {
		o.memOpts.Now = func() time.Time { return time.Now().UTC() }
	}
	return o
}

// DevelopProject plans, implements, verifies and reports on requirements
// using a fresh ProjectMemory. Only planning failures and internal
// consistency errors are returned; failed tasks are reported in the summary.
func (o *orchestrator) DevelopProject(requirements string) (*Run, error) {
	runID := o.newRunID()
	log := o.logger.With(zap.String("run_id", runID))
	mem := NewProjectMemory(o.memOpts)
	started := o.memOpts.Now()

	log.Info("phase started", zap.String("phase", "plan"))
	taskIDs, err := o.planner.Plan(mem, requirements)
	if err != nil {
		return nil, fmt.Errorf("planning: %w", err)
	}
	if len(taskIDs) == 0 {
		log.Error("planning produced no tasks")
		return nil, &PlanningFailedError{}
	}
	log.Info("plan created", zap.Int("tasks", len(taskIDs)))

	log.Info("phase started", zap.String("phase", "implement"))
	var results []TaskResult
	for _, id := range taskIDs {
		task, err := mem.Task(id)
		if err != nil {
			return nil, err
		}
		if task.Status != models.StatusPending {
			continue
		}
		if !task.ReadyToStart(completedSet(mem)) {
			if err := mem.UpdateTaskStatus(id, models.StatusBlocked); err != nil {
				return nil, err
			}
			log.Warn("task blocked by unfinished dependency",
				zap.String("task_id", id), zap.Strings("depends_on", task.DependsOn))
			continue
		}

		res, err := o.runTask(mem, task)
		if err != nil {
			return nil, fmt.Errorf("running %s: %w", id, err)
		}
		results = append(results, res)
		log.Info("task finished",
			zap.String("task_id", id),
			zap.String("outcome", string(res.Outcome)),
			zap.Int("attempts", res.Attempts))
	}

	log.Info("phase started", zap.String("phase", "verify"))
	p := mem.ProgressSnapshot()
	if p.Failed > 0 {
		log.Warn("tasks failed", zap.Int("failed", p.Failed), zap.Int("open_bugs", p.OpenBugs))
	}

	log.Info("phase started", zap.String("phase", "report"))
	p = o.planner.Report(mem)
	integration := o.qa.IntegrationChecks(mem)

	summary := models.RunSummary{
		RunID:        runID,
		Requirements: requirements,
		Started:      started,
		Finished:     o.memOpts.Now(),
		Progress:     p,
		Files:        mem.FileNames(),
		Tasks:        mem.Tasks(),
		Bugs:         mem.Bugs(),
		Checks:       mem.Checks(),
		Integration:  integration,
		Log:          mem.CommunicationLog(),
		Team:         []models.AgentProfile{Profile(o.planner), Profile(o.coder), Profile(o.qa)},
	}
	log.Info("run finished",
		zap.Int("completed", p.Completed),
		zap.Int("total", p.Total),
		zap.Float64("percent", p.Percent),
		zap.Int("open_bugs", p.OpenBugs))

	return &Run{Summary: summary, Files: mem.Files(), Results: results}, nil
}

// runTask wraps the coder and QA pair in a bounded retry. Unsupported
// categories fail immediately with a High bug and are not retried.
func (o *orchestrator) runTask(mem *ProjectMemory, task models.Task) (TaskResult, error) {
	res := TaskResult{TaskID: task.ID}

	attempts, done, err := boundedRetry(maxRetries, func(attempt int) (bool, error) {
		if attempt > 0 {
			o.logger.Info("retrying task", zap.String("task_id", task.ID), zap.String("bug_id", res.BugID))
		}
		if err := o.coder.Implement(mem, task.ID); err != nil {
			return false, err
		}
		verdict, err := o.qa.Verify(mem, task.ID)
		if err != nil {
			return false, err
		}
		if !verdict.Passed {
			res.BugID = verdict.BugID
		}
		return verdict.Passed, nil
	})
	res.Attempts = attempts

	var unsupported *UnsupportedTaskError
	if errors.As(err, &unsupported) {
		bugID, ferr := o.failUnsupported(mem, task, unsupported)
		if ferr != nil {
			return res, ferr
		}
		res.Outcome, res.BugID = TaskOutcomeFailedWithBug, bugID
		return res, nil
	}
	if err != nil {
		return res, err
	}

	if done {
		res.Outcome = TaskOutcomeCompleted
	} else {
		res.Outcome = TaskOutcomeFailedWithBug
	}
	return res, nil
}

func (o *orchestrator) failUnsupported(mem *ProjectMemory, task models.Task, cause *UnsupportedTaskError) (string, error) {
	if err := mem.UpdateTaskStatus(task.ID, models.StatusFailed); err != nil {
		return "", err
	}
	bugID, err := mem.AddBug(models.BugReport{
		TaskID:      task.ID,
		Title:       fmt.Sprintf("No implementation available for %s", task.Title),
		Description: cause.Error(),
		Severity:    models.SeverityHigh,
	})
	if err != nil {
		return "", err
	}
	o.logger.Warn("unsupported task", zap.String("task_id", task.ID),
		zap.String("category", string(cause.Category)), zap.String("bug_id", bugID))
	return bugID, nil
}

// boundedRetry calls attempt until it reports done, an error occurs or
// maxRetries retries have been spent. It returns the number of attempts made.
func boundedRetry(maxRetries int, attempt func(n int) (bool, error)) (int, bool, error) {
	n := 0
	for ; n <= maxRetries; n++ {
		done, err := attempt(n)
		if err != nil {
			return n + 1, false, err
		}
		if done {
			return n + 1, true, nil
		}
	}
	return n, false, nil
}

func completedSet(mem *ProjectMemory) map[string]bool {
	done := make(map[string]bool)
	for _, t := range mem.Tasks() {
		if t.Status == models.StatusCompleted {
			done[t.ID] = true
		}
	}
	return done
}
