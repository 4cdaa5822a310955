// Package store holds the task collection of a prioritization session and
// owns task identity.
package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/prio/prio/internal/domain"
	"github.com/prio/prio/internal/importer"
)

// TaskStore is the exclusive owner of the ordered task collection and of the
// next-ID counter. The counter is always strictly greater than every ID held.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  []domain.Task
	nextID int
	now    func() time.Time
}

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock sets the clock used for default due dates.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) {
		s.now = now
	}
}

// New creates an empty store whose first task gets ID 1.
func New(opts ...Option) *TaskStore {
	s := &TaskStore{
		tasks:  []domain.Task{},
		nextID: 1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Add validates the draft, assigns it the next ID and appends it.
func (s *TaskStore) Add(draft domain.Draft) (domain.Task, error) {
	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return domain.Task{}, domain.NewValidationError("Please enter a task title")
	}

	due := strings.TrimSpace(draft.DueDate)
	if due == "" {
		due = domain.Today(s.now())
	} else if !domain.ValidDate(due) {
		return domain.Task{}, domain.NewValidationError(
			fmt.Sprintf("due date %q must be in YYYY-MM-DD format", draft.DueDate))
	}

	hours := draft.EstimatedHours
	if hours < 1 {
		hours = domain.DefaultEstimatedHours
	}
	importance := draft.Importance
	if importance == 0 {
		importance = domain.DefaultImportance
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !domain.ValidID(s.nextID) {
		return domain.Task{}, domain.NewValidationError("no task IDs left; clear the workspace to reset numbering")
	}

	task := domain.Task{
		ID:             s.nextID,
		Title:          title,
		DueDate:        due,
		EstimatedHours: hours,
		Importance:     domain.ClampImportance(importance),
		Dependencies:   append([]int{}, draft.Dependencies...),
	}
	s.nextID++
	s.tasks = append(s.tasks, task)

	return task.Clone(), nil
}

// Remove deletes the task with the given ID. It reports whether a task was
// removed; removing an unknown ID is not an error.
func (s *TaskStore) Remove(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the store and resets the counter to 1.
func (s *TaskStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []domain.Task{}
	s.nextID = 1
}

// ReplaceAll swaps the whole collection for tasks and recomputes the counter
// as max(ID)+1. An empty replacement leaves the counter unchanged.
func (s *TaskStore) ReplaceAll(tasks []domain.Task) error {
	if err := checkIDs(tasks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceLocked(tasks)
	return nil
}

// Import reconciles a bulk JSON document against the current counter and
// replaces the collection with the result. On failure the store is unchanged.
func (s *TaskStore) Import(raw string) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := importer.Parse(raw, s.nextID, s.now())
	if err != nil {
		return nil, err
	}
	s.replaceLocked(tasks)
	return domain.CloneTasks(tasks), nil
}

func (s *TaskStore) replaceLocked(tasks []domain.Task) {
	s.tasks = domain.CloneTasks(tasks)
	if len(tasks) > 0 {
		s.nextID = maxID(tasks) + 1
	}
}

// Restore rehydrates the store from a persisted snapshot. The counter never
// ends up at or below an ID present in tasks.
func (s *TaskStore) Restore(tasks []domain.Task, nextID int) error {
	if err := checkIDs(tasks); err != nil {
		return err
	}
	if len(tasks) > 0 && nextID <= maxID(tasks) {
		nextID = maxID(tasks) + 1
	}
	if nextID < 1 {
		nextID = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = domain.CloneTasks(tasks)
	s.nextID = nextID
	return nil
}

// List returns a copy of the tasks in display order.
func (s *TaskStore) List() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return domain.CloneTasks(s.tasks)
}

// Len returns the number of tasks held.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}

// NextID returns the ID the next added task will receive.
func (s *TaskStore) NextID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.nextID
}

func checkIDs(tasks []domain.Task) error {
	seen := make(map[int]struct{}, len(tasks))
	for _, t := range tasks {
		if !domain.ValidID(t.ID) {
			return domain.NewValidationError(fmt.Sprintf("task id %d out of range", t.ID))
		}
		if _, dup := seen[t.ID]; dup {
			return domain.NewValidationError(fmt.Sprintf("duplicate task id %d", t.ID))
		}
		seen[t.ID] = struct{}{}
	}
	return nil
}

func maxID(tasks []domain.Task) int {
	m := tasks[0].ID
	for _, t := range tasks[1:] {
		if t.ID > m {
			m = t.ID
		}
	}
	return m
}
