package core

import (
	"time"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// MemoryOptions configures a ProjectMemory. Zero values fall back to
// TASK-/BUG- ids padded to five digits, no event logger and time.Now.
type MemoryOptions struct {
	TaskIDs IDGenerator
	BugIDs  IDGenerator
	Events  EventLogger
	Now     func() time.Time
}

// ProjectMemory is the shared state of one development run: tasks, bugs,
// generated files, QA check results and the team's communication log.
//
// It has no locking. A run owns its memory exclusively and lends it to one
// agent call at a time.
type ProjectMemory struct {
	requirements string

	tasks     []models.Task
	taskIndex map[string]int
	bugs      []models.BugReport
	bugIndex  map[string]int
	files     map[string]string
	fileOrder []string
	log       []models.Communication
	checks    []models.CheckResult

	taskIDs IDGenerator
	bugIDs  IDGenerator
	events  EventLogger
	now     func() time.Time
}

// NewProjectMemory creates an empty ProjectMemory.
func NewProjectMemory(opts MemoryOptions) *ProjectMemory {
	m := &ProjectMemory{
		taskIndex: make(map[string]int),
		bugIndex:  make(map[string]int),
		files:     make(map[string]string),
		taskIDs:   opts.TaskIDs,
		bugIDs:    opts.BugIDs,
		events:    opts.Events,
		now:       opts.Now,
	}
	if m.taskIDs == nil {
		m.taskIDs = NewIDGenerator("TASK", 5)
	}
	if m.bugIDs == nil {
		m.bugIDs = NewIDGenerator("BUG", 5)
	}
	if m.now == nil {
		m.now = func() time.Time { return time.Now().UTC() }
	}
	return m
}

// SetRequirements stores the free-text requirements the run was started with.
func (m *ProjectMemory) SetRequirements(requirements string) {
	m.requirements = requirements
}

// Requirements returns the requirements recorded by SetRequirements.
func (m *ProjectMemory) Requirements() string {
	return m.requirements
}

// AddTask appends a task, assigns it the next id and returns that id.
// The task always starts Pending with no completion timestamp.
func (m *ProjectMemory) AddTask(task models.Task) string {
	now := m.now()
	task = cloneTask(task)
	task.ID = m.taskIDs.Next()
	task.Status = models.StatusPending
	task.Created = now
	task.Updated = now
	task.Completed = nil

	m.taskIndex[task.ID] = len(m.tasks)
	m.tasks = append(m.tasks, task)

	m.emit(EventTaskCreated, map[string]any{
		"task_id":  task.ID,
		"title":    task.Title,
		"category": string(task.Category),
		"priority": string(task.Priority),
	})
	return task.ID
}

// Task returns a copy of the task with the given id.
func (m *ProjectMemory) Task(id string) (models.Task, error) {
	idx, ok := m.taskIndex[id]
	if !ok {
		return models.Task{}, &NotFoundError{Kind: "task", ID: id}
	}
	return cloneTask(m.tasks[idx]), nil
}

// Tasks returns copies of all tasks in creation order.
func (m *ProjectMemory) Tasks() []models.Task {
	out := make([]models.Task, len(m.tasks))
	for i, t := range m.tasks {
		out[i] = cloneTask(t)
	}
	return out
}

// UpdateTaskStatus moves a task to a new status. Entering Completed or
// Failed stamps the completion time; any other status clears it.
func (m *ProjectMemory) UpdateTaskStatus(id string, to models.TaskStatus) error {
	idx, ok := m.taskIndex[id]
	if !ok {
		return &NotFoundError{Kind: "task", ID: id}
	}
	task := &m.tasks[idx]
	from := task.Status
	if !CanTransitionTask(from, to) {
		return &InvalidTransitionError{Kind: "task", ID: id, From: string(from), To: string(to)}
	}

	now := m.now()
	task.Status = to
	task.Updated = now
	if to.IsTerminal() {
		task.Completed = &now
	} else {
		task.Completed = nil
	}

	m.emit(EventTaskStatusChanged, map[string]any{
		"task_id":    id,
		"old_status": string(from),
		"new_status": string(to),
	})
	return nil
}

// AnnotateTask replaces a task's completion notes.
func (m *ProjectMemory) AnnotateTask(id, notes string) error {
	idx, ok := m.taskIndex[id]
	if !ok {
		return &NotFoundError{Kind: "task", ID: id}
	}
	m.tasks[idx].CompletionNotes = notes
	return nil
}

// AttachFile links a generated file name to a task. Duplicates are ignored.
func (m *ProjectMemory) AttachFile(id, name string) error {
	idx, ok := m.taskIndex[id]
	if !ok {
		return &NotFoundError{Kind: "task", ID: id}
	}
	for _, f := range m.tasks[idx].Files {
		if f == name {
			return nil
		}
	}
	m.tasks[idx].Files = append(m.tasks[idx].Files, name)
	return nil
}

// AddBug appends a bug report linked to an existing task and returns its id.
// The bug always starts Open.
func (m *ProjectMemory) AddBug(bug models.BugReport) (string, error) {
	if _, ok := m.taskIndex[bug.TaskID]; !ok {
		return "", &NotFoundError{Kind: "task", ID: bug.TaskID}
	}
	bug = cloneBug(bug)
	bug.ID = m.bugIDs.Next()
	bug.Status = models.BugOpen
	bug.Created = m.now()
	bug.Resolved = nil

	m.bugIndex[bug.ID] = len(m.bugs)
	m.bugs = append(m.bugs, bug)

	m.emit(EventBugCreated, map[string]any{
		"bug_id":   bug.ID,
		"task_id":  bug.TaskID,
		"severity": string(bug.Severity),
		"title":    bug.Title,
	})
	return bug.ID, nil
}

// Bug returns a copy of the bug with the given id.
func (m *ProjectMemory) Bug(id string) (models.BugReport, error) {
	idx, ok := m.bugIndex[id]
	if !ok {
		return models.BugReport{}, &NotFoundError{Kind: "bug", ID: id}
	}
	return cloneBug(m.bugs[idx]), nil
}

// Bugs returns copies of all bugs in creation order.
func (m *ProjectMemory) Bugs() []models.BugReport {
	out := make([]models.BugReport, len(m.bugs))
	for i, b := range m.bugs {
		out[i] = cloneBug(b)
	}
	return out
}

// OpenBugsForTask returns the unresolved bugs linked to a task.
func (m *ProjectMemory) OpenBugsForTask(taskID string) []models.BugReport {
	var out []models.BugReport
	for _, b := range m.bugs {
		if b.TaskID == taskID && b.IsOpen() {
			out = append(out, cloneBug(b))
		}
	}
	return out
}

// UpdateBugStatus moves a bug to a new status. Resolving stamps the
// resolution time and stores notes as the fix notes.
func (m *ProjectMemory) UpdateBugStatus(id string, to models.BugStatus, notes string) error {
	idx, ok := m.bugIndex[id]
	if !ok {
		return &NotFoundError{Kind: "bug", ID: id}
	}
	bug := &m.bugs[idx]
	from := bug.Status
	if !CanTransitionBug(from, to) {
		return &InvalidTransitionError{Kind: "bug", ID: id, From: string(from), To: string(to)}
	}

	bug.Status = to
	if to == models.BugResolved {
		now := m.now()
		bug.Resolved = &now
		if notes != "" {
			bug.FixNotes = notes
		}
	} else {
		bug.Resolved = nil
	}

	m.emit(EventBugStatusChanged, map[string]any{
		"bug_id":     id,
		"task_id":    bug.TaskID,
		"old_status": string(from),
		"new_status": string(to),
	})
	return nil
}

// RecordFile stores generated file content. The last write wins.
func (m *ProjectMemory) RecordFile(name, content string) {
	if _, exists := m.files[name]; !exists {
		m.fileOrder = append(m.fileOrder, name)
	}
	m.files[name] = content
	m.emit(EventFileRecorded, map[string]any{"file": name, "bytes": len(content)})
}

// File returns the recorded content of name.
func (m *ProjectMemory) File(name string) (string, bool) {
	content, ok := m.files[name]
	return content, ok
}

// FileNames returns recorded file names in first-write order.
func (m *ProjectMemory) FileNames() []string {
	return append([]string(nil), m.fileOrder...)
}

// Files returns a copy of the file name to content mapping.
func (m *ProjectMemory) Files() map[string]string {
	out := make(map[string]string, len(m.files))
	for k, v := range m.files {
		out[k] = v
	}
	return out
}

// Log appends a free-form note from role to the communication log.
func (m *ProjectMemory) Log(role models.AgentRole, message string) {
	m.Append(models.Communication{Role: role, Action: models.ActionNote, Message: message})
}

// Append adds an entry to the communication log. It never fails.
func (m *ProjectMemory) Append(entry models.Communication) {
	if entry.Time.IsZero() {
		entry.Time = m.now()
	}
	entry.TaskIDs = append([]string(nil), entry.TaskIDs...)
	m.log = append(m.log, entry)

	data := map[string]any{
		"role":    string(entry.Role),
		"action":  string(entry.Action),
		"message": entry.Message,
	}
	if entry.TaskID != "" {
		data["task_id"] = entry.TaskID
	}
	if entry.Outcome != "" {
		data["outcome"] = string(entry.Outcome)
	}
	if len(entry.TaskIDs) > 0 {
		data["task_ids"] = entry.TaskIDs
	}
	m.emit(EventAgentAction, data)
}

// CommunicationLog returns a copy of the communication log.
func (m *ProjectMemory) CommunicationLog() []models.Communication {
	out := make([]models.Communication, len(m.log))
	for i, e := range m.log {
		e.TaskIDs = append([]string(nil), e.TaskIDs...)
		out[i] = e
	}
	return out
}

// RecordCheck stores the result of a QA check.
func (m *ProjectMemory) RecordCheck(result models.CheckResult) {
	m.checks = append(m.checks, result)
	m.emit(EventCheckRecorded, map[string]any{
		"check":   result.Name,
		"task_id": result.TaskID,
		"passed":  result.Passed,
	})
}

// Checks returns all recorded QA check results.
func (m *ProjectMemory) Checks() []models.CheckResult {
	return append([]models.CheckResult(nil), m.checks...)
}

// ProgressSnapshot derives progress counters from the current tasks, bugs,
// checks and files. It does not mutate memory.
func (m *ProjectMemory) ProgressSnapshot() models.Progress {
	p := models.Progress{Total: len(m.tasks), FilesCreated: len(m.files)}
	for _, t := range m.tasks {
		switch t.Status {
		case models.StatusCompleted:
			p.Completed++
		case models.StatusFailed:
			p.Failed++
		case models.StatusBlocked:
			p.Blocked++
		}
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed) / float64(p.Total) * 100
	}
	for _, b := range m.bugs {
		if b.IsOpen() {
			p.OpenBugs++
			if b.IsCritical() {
				p.CriticalBugs++
			}
		}
	}
	for _, c := range m.checks {
		if c.Passed {
			p.ChecksPassed++
		} else {
			p.ChecksFailed++
		}
	}
	return p
}

func (m *ProjectMemory) emit(eventType string, data map[string]any) {
	if m.events == nil {
		return
	}
	_ = m.events.LogEvent(eventType, data) // Logging never fails a run.
}

func cloneTask(t models.Task) models.Task {
	t.DependsOn = append([]string(nil), t.DependsOn...)
	t.Files = append([]string(nil), t.Files...)
	if t.Completed != nil {
		c := *t.Completed
		t.Completed = &c
	}
	return t
}

func cloneBug(b models.BugReport) models.BugReport {
	b.StepsToReproduce = append([]string(nil), b.StepsToReproduce...)
	if b.Resolved != nil {
		r := *b.Resolved
		b.Resolved = &r
	}
	return b
}
