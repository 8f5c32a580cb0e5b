package core

import (
	"fmt"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

type coder struct {
	templates TemplateManager
}

// NewCoder creates the implementing agent. Artifact content comes from
// templates; pass NewTemplateManager("") for the built-in set.
func NewCoder(templates TemplateManager) Implementer {
	return &coder{templates: templates}
}

func (c *coder) Role() models.AgentRole { return models.RoleCoder }

func (c *coder) Capabilities() []string {
	return []string{
		"HTML structure",
		"CSS styling",
		"JavaScript behavior",
		"Project documentation",
		"Bug fixing",
	}
}

// Implement renders the artifact for a task's category and marks the task
// Completed. Unresolved bugs of the task move to InProgress while it is
// being reworked. A category without a template yields UnsupportedTaskError
// and leaves the task InProgress.
func (c *coder) Implement(mem *ProjectMemory, taskID string) error {
	task, err := mem.Task(taskID)
	if err != nil {
		return err
	}

	if task.Status != models.StatusInProgress {
		if err := mem.UpdateTaskStatus(taskID, models.StatusInProgress); err != nil {
			return err
		}
	}

	fixing := 0
	for _, bug := range mem.OpenBugsForTask(taskID) {
		if bug.Status != models.BugOpen {
			continue
		}
		if err := mem.UpdateBugStatus(bug.ID, models.BugInProgress, ""); err != nil {
			return err
		}
		fixing++
	}

	name, ok := ArtifactFile(task.Category)
	if !ok {
		mem.Append(models.Communication{
			Role:    c.Role(),
			Action:  models.ActionImplement,
			TaskID:  taskID,
			Outcome: models.OutcomeUnsupported,
			Message: fmt.Sprintf("Cannot implement %s: unsupported category %q", taskID, task.Category),
		})
		return &UnsupportedTaskError{TaskID: taskID, Category: task.Category}
	}

	content, err := c.templates.Render(task.Category, NewArtifactData(mem.Requirements()))
	if err != nil {
		return fmt.Errorf("implementing %s: %w", taskID, err)
	}

	mem.RecordFile(name, content)
	if err := mem.AttachFile(taskID, name); err != nil {
		return err
	}
	if err := mem.UpdateTaskStatus(taskID, models.StatusCompleted); err != nil {
		return err
	}

	notes := fmt.Sprintf("Created %s", name)
	if fixing > 0 {
		notes = fmt.Sprintf("Rewrote %s to address %d open bug(s)", name, fixing)
	}
	if err := mem.AnnotateTask(taskID, notes); err != nil {
		return err
	}

	mem.Append(models.Communication{
		Role:    c.Role(),
		Action:  models.ActionImplement,
		TaskID:  taskID,
		Outcome: models.OutcomeImplemented,
		Message: fmt.Sprintf("Completed task %s: %s (%s)", taskID, task.Title, notes),
	})
	return nil
}
