package store

import (
	"time"

	"github.com/prio/prio/internal/domain"
)

const day = 24 * time.Hour

// sampleDrafts returns the demo task set, due dates relative to now.
func sampleDrafts(now time.Time) []domain.Draft {
	return []domain.Draft{
		{
			Title:          "Fix critical login bug",
			DueDate:        domain.Today(now.Add(day)),
			EstimatedHours: 3,
			Importance:     9,
			Dependencies:   []int{},
		},
		{
			Title:          "Write API documentation",
			DueDate:        domain.Today(now.Add(3 * day)),
			EstimatedHours: 2,
			Importance:     6,
			Dependencies:   []int{1},
		},
		{
			Title:          "Setup production deployment",
			DueDate:        domain.Today(now.Add(2 * day)),
			EstimatedHours: 4,
			Importance:     8,
			Dependencies:   []int{},
		},
	}
}

// LoadSample replaces the collection with the demo task set. IDs are minted
// from the current counter, which then advances past them; an exhausted
// counter restarts at 1.
func (s *TaskStore) LoadSample() []domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	drafts := sampleDrafts(s.now())
	first := s.nextID
	if !domain.ValidID(first + len(drafts) - 1) {
		// The collection is replaced wholesale, so numbering can restart.
		first = domain.MinTaskID
	}
	tasks := make([]domain.Task, len(drafts))
	for i, d := range drafts {
		tasks[i] = domain.Task{
			ID:             first + i,
			Title:          d.Title,
			DueDate:        d.DueDate,
			EstimatedHours: d.EstimatedHours,
			Importance:     d.Importance,
			Dependencies:   d.Dependencies,
		}
	}
	s.replaceLocked(tasks)

	return domain.CloneTasks(tasks)
}
