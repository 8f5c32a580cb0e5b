package core

import "github.com/valter-silva-au/ai-dev-team/pkg/models"

// Agent is a member of the development team. Agents hold no project state:
// the memory is lent to them for the duration of a single call.
type Agent interface {
	Role() models.AgentRole
	Capabilities() []string
}

// Planner turns requirements into tasks and reports on the finished run.
type Planner interface {
	Agent
	// Plan records tasks in mem and returns their ids in creation order.
	Plan(mem *ProjectMemory, requirements string) ([]string, error)
	// Report appends the final report entry and returns the progress it saw.
	Report(mem *ProjectMemory) models.Progress
}

// Implementer produces the artifact for one task.
type Implementer interface {
	Agent
	Implement(mem *ProjectMemory, taskID string) error
}

// Verifier checks the artifact of one completed task.
type Verifier interface {
	Agent
	Verify(mem *ProjectMemory, taskID string) (Verdict, error)
	IntegrationChecks(mem *ProjectMemory) []models.CheckResult
}

// Verdict is the outcome of verifying one task.
type Verdict struct {
	Passed bool
	Checks []models.CheckResult
	// BugID is the bug opened or reopened for a failed verification.
	BugID string
}

// Profile describes an agent for summaries.
func Profile(a Agent) models.AgentProfile {
	return models.AgentProfile{
		Role:         a.Role(),
		Name:         a.Role().DisplayName(),
		Capabilities: append([]string(nil), a.Capabilities()...),
	}
}

// ArtifactFile maps each category to the file its task produces.
func ArtifactFile(c models.Category) (string, bool) {
	switch c {
	case models.CategoryStructure:
		return "index.html", true
	case models.CategoryStyle:
		return "styles.css", true
	case models.CategoryBehavior:
		return "script.js", true
	case models.CategoryDocs:
		return "README.md", true
	}
	return "", false
}
