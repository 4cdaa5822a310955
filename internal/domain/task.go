package domain

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO 8601 calendar date format used for due dates.
const DateLayout = "2006-01-02"

// Field defaults and bounds.
const (
	DefaultEstimatedHours = 1
	DefaultImportance     = 5
	MinImportance         = 1
	MaxImportance         = 10
)

// Task IDs are positive and stay within the range a JSON number holds
// exactly, so the counter can always be advanced past the highest ID.
const (
	MinTaskID = 1
	MaxTaskID = 1<<53 - 1
)

// ValidID reports whether id is usable as a task ID.
func ValidID(id int) bool {
	return id >= MinTaskID && id <= MaxTaskID
}

// Task represents a unit of work held by the task store.
type Task struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	DueDate        string `json:"due_date"`
	EstimatedHours int    `json:"estimated_hours"`
	Importance     int    `json:"importance"`
	Dependencies   []int  `json:"dependencies"`
}

// Draft is a task as entered by the user, before the store assigns an ID.
type Draft struct {
	Title          string
	DueDate        string
	EstimatedHours int
	Importance     int
	Dependencies   []int
}

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	c.Dependencies = append(make([]int, 0, len(t.Dependencies)), t.Dependencies...)
	return c
}

// CloneTasks deep-copies a task slice. The result is never nil.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// ClampImportance limits importance to [MinImportance, MaxImportance].
func ClampImportance(v int) int {
	if v < MinImportance {
		return MinImportance
	}
	if v > MaxImportance {
		return MaxImportance
	}
	return v
}

// Today returns t formatted as a due date.
func Today(t time.Time) string {
	return t.Format(DateLayout)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ParseDependencies parses a comma-separated list of task IDs as typed
// into the task form. Entries that are not integers are dropped.
func ParseDependencies(s string) []int {
	deps := []int{}
	if strings.TrimSpace(s) == "" {
		return deps
	}
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		deps = append(deps, n)
	}
	return deps
}
