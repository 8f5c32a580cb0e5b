package core

import (
	"strconv"
	"strings"
	"testing"

	"github.com/valter-silva-au/ai-dev-team/pkg/models"
	"pgregory.net/rapid"
)

func idNumber(t *rapid.T, id string) int {
	_, num, ok := strings.Cut(id, "-")
	if !ok {
		t.Fatalf("id %q has no separator", id)
	}
	n, err := strconv.Atoi(num)
	if err != nil {
		t.Fatalf("id %q: %v", id, err)
	}
	return n
}

// Feature: ai-dev-team, Property 2: Task ids are unique and strictly increasing
func TestProperty_AddTaskIDsIncrease(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mem := NewProjectMemory(MemoryOptions{})
		n := rapid.IntRange(1, 150).Draw(t, "n")

		prev := 0
		seen := make(map[string]bool)
		for i := 0; i < n; i++ {
			id := mem.AddTask(models.Task{Title: "t"})
			if seen[id] {
				t.Fatalf("duplicate id %q", id)
			}
			seen[id] = true
			num := idNumber(t, id)
			if num <= prev {
				t.Fatalf("id %q not greater than previous %d", id, prev)
			}
			prev = num
		}

		tasks := mem.Tasks()
		for i := 1; i < len(tasks); i++ {
			if idNumber(t, tasks[i].ID) <= idNumber(t, tasks[i-1].ID) {
				t.Fatalf("tasks out of creation order at %d", i)
			}
		}
	})
}

// Feature: ai-dev-team, Property 3: Progress is always derived from the task sequence
func TestProperty_ProgressMatchesTasks(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mem := NewProjectMemory(MemoryOptions{})
		n := rapid.IntRange(0, 20).Draw(t, "n")
		ids := make([]string, n)
		for i := range ids {
			ids[i] = mem.AddTask(models.Task{Title: "t"})
		}

		steps := rapid.IntRange(0, 60).Draw(t, "steps")
		statuses := models.TaskStatuses()
		for i := 0; i < steps && n > 0; i++ {
			id := ids[rapid.IntRange(0, n-1).Draw(t, "task")]
			to := statuses[rapid.IntRange(0, len(statuses)-1).Draw(t, "to")]
			_ = mem.UpdateTaskStatus(id, to) // Illegal moves are rejected and ignored.
		}

		completed, failed, blocked := 0, 0, 0
		for _, task := range mem.Tasks() {
			switch task.Status {
			case models.StatusCompleted:
				completed++
			case models.StatusFailed:
				failed++
			case models.StatusBlocked:
				blocked++
			}
			if (task.Completed != nil) != task.Status.IsTerminal() {
				t.Fatalf("task %s: status %s with Completed=%v", task.ID, task.Status, task.Completed)
			}
		}

		p := mem.ProgressSnapshot()
		if p.Total != n || p.Completed != completed || p.Failed != failed || p.Blocked != blocked {
			t.Fatalf("snapshot %+v disagrees with tasks (c=%d f=%d b=%d)", p, completed, failed, blocked)
		}
		want := 0.0
		if n > 0 {
			want = float64(completed) / float64(n) * 100
		}
		if p.Percent != want {
			t.Fatalf("Percent = %v, want %v", p.Percent, want)
		}
		if again := mem.ProgressSnapshot(); again != p {
			t.Fatalf("snapshot not idempotent")
		}
	})
}

// Feature: ai-dev-team, Property 4: Rejected transitions leave the task unchanged
func TestProperty_TransitionsFollowTable(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		mem := NewProjectMemory(MemoryOptions{})
		id := mem.AddTask(models.Task{Title: "t"})
		statuses := models.TaskStatuses()

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			before, _ := mem.Task(id)
			to := statuses[rapid.IntRange(0, len(statuses)-1).Draw(t, "to")]
			err := mem.UpdateTaskStatus(id, to)
			after, _ := mem.Task(id)

			legal := CanTransitionTask(before.Status, to)
			if legal && (err != nil || after.Status != to) {
				t.Fatalf("%s -> %s should succeed: %v", before.Status, to, err)
			}
			if !legal && (err == nil || after.Status != before.Status) {
				t.Fatalf("%s -> %s should be rejected", before.Status, to)
			}
		}
	})
}
