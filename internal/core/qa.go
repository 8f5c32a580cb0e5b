package core

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
)

// SeverityFor returns the severity of a bug raised against a category.
func SeverityFor(c models.Category) models.Severity {
	switch c {
	case models.CategoryStructure:
		return models.SeverityCritical
	case models.CategoryBehavior:
		return models.SeverityHigh
	case models.CategoryStyle:
		return models.SeverityMedium
	case models.CategoryDocs:
		return models.SeverityLow
	}
	return models.SeverityHigh
}

var elementIDPattern = regexp.MustCompile(`getElementById\(\s*['"]([^'"]+)['"]\s*\)`)

type qaTester struct{}

// NewQA creates the verifying agent. All checks are static inspections of
// recorded file content; nothing is executed.
func NewQA() Verifier {
	return qaTester{}
}

func (qaTester) Role() models.AgentRole { return models.RoleQA }

func (qaTester) Capabilities() []string {
	return []string{
		"Static content checks",
		"Cross-file reference checks",
		"Bug reporting",
		"Integration checks",
	}
}

// Verify runs the check battery for a Completed task and records each
// result. A failed verification moves the task to Failed and opens a bug,
// or reopens the task's unresolved bug if it already has one. A passing
// verification resolves the task's unresolved bugs.
func (q qaTester) Verify(mem *ProjectMemory, taskID string) (Verdict, error) {
	task, err := mem.Task(taskID)
	if err != nil {
		return Verdict{}, err
	}
	if task.Status != models.StatusCompleted {
		return Verdict{}, fmt.Errorf("verifying %s: task is %s, not completed", taskID, task.Status)
	}

	checks := runChecks(mem, task)
	var failed []models.CheckResult
	for _, c := range checks {
		mem.RecordCheck(c)
		if !c.Passed {
			failed = append(failed, c)
		}
	}

	verdict := Verdict{Passed: len(failed) == 0, Checks: checks}
	if verdict.Passed {
		for _, bug := range mem.OpenBugsForTask(taskID) {
			if err := mem.UpdateBugStatus(bug.ID, models.BugResolved, "Verified after fix"); err != nil {
				return Verdict{}, err
			}
		}
		mem.Append(models.Communication{
			Role:    q.Role(),
			Action:  models.ActionVerify,
			TaskID:  taskID,
			Outcome: models.OutcomePassed,
			Message: fmt.Sprintf("Verified %s: %d/%d checks passed", taskID, len(checks), len(checks)),
		})
		return verdict, nil
	}

	if err := mem.UpdateTaskStatus(taskID, models.StatusFailed); err != nil {
		return Verdict{}, err
	}
	bugID, err := q.raiseBug(mem, task, failed)
	if err != nil {
		return Verdict{}, err
	}
	verdict.BugID = bugID

	mem.Append(models.Communication{
		Role:    q.Role(),
		Action:  models.ActionVerify,
		TaskID:  taskID,
		Outcome: models.OutcomeFailed,
		Message: fmt.Sprintf("Verification of %s failed: %d/%d checks failed, bug %s", taskID, len(failed), len(checks), bugID),
	})
	return verdict, nil
}

// raiseBug reopens the task's unresolved bug, or files a new one.
func (q qaTester) raiseBug(mem *ProjectMemory, task models.Task, failed []models.CheckResult) (string, error) {
	if open := mem.OpenBugsForTask(task.ID); len(open) > 0 {
		bug := open[0]
		if bug.Status != models.BugOpen {
			if err := mem.UpdateBugStatus(bug.ID, models.BugOpen, ""); err != nil {
				return "", err
			}
		}
		return bug.ID, nil
	}

	names := make([]string, len(failed))
	steps := make([]string, len(failed))
	for i, c := range failed {
		names[i] = c.Name
		steps[i] = fmt.Sprintf("Check %q against %s", c.Name, c.File)
	}
	file, _ := ArtifactFile(task.Category)
	return mem.AddBug(models.BugReport{
		TaskID:           task.ID,
		Title:            fmt.Sprintf("Verification failed for %s", task.Title),
		Description:      "Failed checks: " + strings.Join(names, "; "),
		Severity:         SeverityFor(task.Category),
		File:             file,
		StepsToReproduce: steps,
		ExpectedResult:   "All checks pass",
		ActualResult:     failed[0].Message,
	})
}

// IntegrationChecks inspects the recorded files as a whole. It records
// nothing and appends no log entry.
func (qaTester) IntegrationChecks(mem *ProjectMemory) []models.CheckResult {
	var out []models.CheckResult
	for _, c := range models.Categories() {
		name, _ := ArtifactFile(c)
		content, ok := mem.File(name)
		out = append(out, result("deliverable "+name+" present", "", name, "",
			ok && strings.TrimSpace(content) != "", name+" was not generated"))
	}
	html, _ := mem.File("index.html")
	out = append(out,
		result("index.html links styles.css", "", "index.html", "",
			linksStylesheet(html, "styles.css"), "stylesheet link missing"),
		result("index.html loads script.js", "", "index.html", "",
			loadsScript(html, "script.js"), "script tag missing"),
	)
	if js, ok := mem.File("script.js"); ok {
		missing := missingElementIDs(js, html)
		out = append(out, result("script.js element ids exist in index.html", "", "script.js", "",
			len(missing) == 0, "missing ids: "+strings.Join(missing, ", ")))
	}
	return out
}

func runChecks(mem *ProjectMemory, task models.Task) []models.CheckResult {
	name, _ := ArtifactFile(task.Category)
	content, _ := mem.File(name)
	lower := strings.ToLower(content)
	id, cat := task.ID, task.Category

	checks := []models.CheckResult{
		result(name+" is non-empty", id, name, cat, strings.TrimSpace(content) != "", "file is empty or missing"),
	}

	switch task.Category {
	case models.CategoryStructure:
		checks = append(checks,
			result("doctype declared", id, name, cat, strings.Contains(lower, "<!doctype html>"), "missing <!DOCTYPE html>"),
			result("html root element", id, name, cat,
				strings.Contains(lower, "<html") && strings.Contains(lower, "</html>"), "missing <html> root"),
			result("links styles.css", id, name, cat, linksStylesheet(content, "styles.css"), "stylesheet link missing"),
			result("loads script.js", id, name, cat, loadsScript(content, "script.js"), "script tag missing"),
		)
		for _, el := range []string{"todoInput", "addBtn", "todoList", "totalTasks", "completedTasks"} {
			checks = append(checks, result("element #"+el+" present", id, name, cat,
				hasElementID(content, el), "no element with id "+el))
		}

	case models.CategoryStyle:
		checks = append(checks, result("braces balanced", id, name, cat, balanced(content), "unbalanced { }"))
		for _, sel := range []string{".container", ".todo-item", ".input-section", ".stats"} {
			checks = append(checks, result("selector "+sel+" defined", id, name, cat,
				strings.Contains(content, sel), "selector "+sel+" not found"))
		}
		html, _ := mem.File("index.html")
		for _, class := range []string{"container", "input-section", "stats"} {
			checks = append(checks, result("class "+class+" used in index.html", id, name, cat,
				hasClass(html, class), "index.html has no element with class "+class))
		}

	case models.CategoryBehavior:
		checks = append(checks,
			result("braces balanced", id, name, cat, balanced(content), "unbalanced { }"),
			result("TodoApp class defined", id, name, cat, strings.Contains(content, "class TodoApp"), "class TodoApp not found"),
		)
		for _, fn := range []string{"addTodo", "toggleTodo", "deleteTodo", "updateStats"} {
			checks = append(checks, result("function "+fn+" defined", id, name, cat,
				strings.Contains(content, fn+"("), fn+" not found"))
		}
		html, _ := mem.File("index.html")
		missing := missingElementIDs(content, html)
		checks = append(checks, result("element ids resolve in index.html", id, name, cat,
			len(missing) == 0, "missing ids: "+strings.Join(missing, ", ")))

	case models.CategoryDocs:
		checks = append(checks,
			result("title heading", id, name, cat, strings.HasPrefix(strings.TrimSpace(content), "# "), "no top-level heading"),
			result("usage section", id, name, cat, strings.Contains(content, "## Usage"), "no ## Usage section"),
			result("features section", id, name, cat, strings.Contains(content, "## Features"), "no ## Features section"),
		)
		for _, c := range []models.Category{models.CategoryStructure, models.CategoryStyle, models.CategoryBehavior} {
			file, _ := ArtifactFile(c)
			checks = append(checks, result("mentions "+file, id, name, cat,
				strings.Contains(content, file), file+" not documented"))
		}
	}
	return checks
}

func result(name, taskID, file string, cat models.Category, passed bool, failure string) models.CheckResult {
	r := models.CheckResult{Name: name, TaskID: taskID, File: file, Passed: passed, Kind: cat, Message: "ok"}
	if !passed {
		r.Message = failure
	}
	return r
}

func linksStylesheet(html, href string) bool {
	return strings.Contains(html, `rel="stylesheet"`) && strings.Contains(html, `href="`+href+`"`)
}

func loadsScript(html, src string) bool {
	return strings.Contains(html, `<script src="`+src+`"`)
}

func hasElementID(html, id string) bool {
	return strings.Contains(html, `id="`+id+`"`)
}

func hasClass(html, class string) bool {
	return strings.Contains(html, `class="`+class+`"`)
}

// missingElementIDs returns the ids looked up by js that html does not define.
func missingElementIDs(js, html string) []string {
	var missing []string
	seen := make(map[string]bool)
	for _, m := range elementIDPattern.FindAllStringSubmatch(js, -1) {
		id := m[1]
		if seen[id] {
			continue
		}
		seen[id] = true
		if !hasElementID(html, id) {
			missing = append(missing, id)
		}
	}
	return missing
}

func balanced(src string) bool {
	depth := 0
	for _, r := range src {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth < 0 {
				return false
			}
		}
	}
	return depth == 0
}
