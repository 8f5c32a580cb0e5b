package core

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// planItem is the static description of the task planned for a category.
type planItem struct {
	title       string
	description string
	priority    models.Priority
	// afterStructure makes the task wait for the structure task.
	afterStructure bool
}

// planFor returns the fixed plan entry for a category. Structure is planned
// first, then styling, then behavior, then documentation.
func planFor(c models.Category) planItem {
	switch c {
	case models.CategoryStructure:
		return planItem{
			title:       "Implement HTML structure",
			description: "Create the main HTML file with the todo list structure",
			priority:    models.PriorityCritical,
		}
	case models.CategoryStyle:
		return planItem{
			title:          "Implement CSS styling",
			description:    "Style the todo application with modern, responsive CSS",
			priority:       models.PriorityHigh,
			afterStructure: true,
		}
	case models.CategoryBehavior:
		return planItem{
			title:          "Implement JavaScript functionality",
			description:    "Add, delete and toggle todo items and keep the counters current",
			priority:       models.PriorityMedium,
			afterStructure: true,
		}
	case models.CategoryDocs:
		return planItem{
			title:       "Write project documentation",
			description: "Create a README describing the files, usage and features",
			priority:    models.PriorityLow,
		}
	}
	return planItem{}
}

type projectManager struct{}

// NewProjectManager creates the planning agent.
func NewProjectManager() Planner {
	return projectManager{}
}

func (projectManager) Role() models.AgentRole { return models.RoleProjectManager }

func (projectManager) Capabilities() []string {
	return []string{
		"Project planning",
		"Task creation and assignment",
		"Progress tracking",
		"Status reporting",
	}
}

// Plan creates one task per category for non-blank requirements. Blank
// requirements produce no tasks; the orchestrator treats that as a failed plan.
func (pm projectManager) Plan(mem *ProjectMemory, requirements string) ([]string, error) {
	mem.SetRequirements(requirements)

	var ids []string
	if strings.TrimSpace(requirements) != "" {
		var structureID string
		for _, c := range models.Categories() {
			item := planFor(c)
			task := models.Task{
				Title:       item.title,
				Description: item.description,
				Category:    c,
				Priority:    item.priority,
				AssignedTo:  models.RoleCoder,
			}
			if item.afterStructure && structureID != "" {
				task.DependsOn = []string{structureID}
			}
			id := mem.AddTask(task)
			if c == models.CategoryStructure {
				structureID = id
			}
			ids = append(ids, id)
		}
	}

	mem.Append(models.Communication{
		Role:    pm.Role(),
		Action:  models.ActionPlan,
		Outcome: models.OutcomePlanned,
		Message: fmt.Sprintf("Created %d tasks for the project", len(ids)),
		TaskIDs: ids,
	})
	return ids, nil
}

// Report records the final progress review.
func (pm projectManager) Report(mem *ProjectMemory) models.Progress {
	p := mem.ProgressSnapshot()
	msg := fmt.Sprintf("Progress: %d/%d tasks completed (%.1f%%)", p.Completed, p.Total, p.Percent)
	if p.Failed > 0 {
		msg += fmt.Sprintf(", %d failed", p.Failed)
	}
	if p.OpenBugs > 0 {
		msg += fmt.Sprintf(", %d open bugs", p.OpenBugs)
	}
	mem.Append(models.Communication{
		Role:    pm.Role(),
		Action:  models.ActionReport,
		Outcome: models.OutcomeReported,
		Message: msg,
	})
	return p
}
