package store

import (
	"encoding/json"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/prio/prio/internal/domain"
)

var fixedNow = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *TaskStore {
	t.Helper()
	return New(WithClock(func() time.Time { return fixedNow }))
}

func ids(tasks []domain.Task) []int {
	out := []int{}
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	s := newTestStore(t)

	for want := 1; want <= 3; want++ {
		task, err := s.Add(domain.Draft{Title: "task"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if task.ID != want {
			t.Errorf("ID = %d, want %d", task.ID, want)
		}
	}
	if s.NextID() != 4 {
		t.Errorf("NextID() = %d, want 4", s.NextID())
	}
}

func TestAdd_Normalisation(t *testing.T) {
	s := newTestStore(t)

	task, err := s.Add(domain.Draft{Title: "  Write report  ", Importance: 15})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := domain.Task{
		ID:             1,
		Title:          "Write report",
		DueDate:        "2025-03-14",
		EstimatedHours: 1,
		Importance:     10,
		Dependencies:   []int{},
	}
	if !reflect.DeepEqual(task, want) {
		t.Errorf("Add() = %+v, want %+v", task, want)
	}
}

func TestAdd_ImportanceDefaultsAndClamps(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"missing defaults", 0, 5},
		{"negative clamps", -2, 1},
		{"high clamps", 42, 10},
		{"in range", 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			task, err := s.Add(domain.Draft{Title: "x", Importance: tt.in})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if task.Importance != tt.want {
				t.Errorf("Importance = %d, want %d", task.Importance, tt.want)
			}
		})
	}
}

func TestAdd_ValidationDoesNotMutate(t *testing.T) {
	tests := []struct {
		name  string
		draft domain.Draft
	}{
		{"empty title", domain.Draft{Title: ""}},
		{"whitespace title", domain.Draft{Title: " \t\n"}},
		{"bad due date", domain.Draft{Title: "ok", DueDate: "tomorrow"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if _, err := s.Add(domain.Draft{Title: "existing"}); err != nil {
				t.Fatalf("setup: %v", err)
			}

			_, err := s.Add(tt.draft)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if s.Len() != 1 {
				t.Errorf("Len() = %d, want 1", s.Len())
			}
			if s.NextID() != 2 {
				t.Errorf("NextID() = %d, want 2", s.NextID())
			}
		})
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	for _, title := range []string{"a", "b", "c"} {
		s.Add(domain.Draft{Title: title})
	}

	if !s.Remove(2) {
		t.Error("Remove(2) = false, want true")
	}
	if s.Remove(42) {
		t.Error("Remove(42) = true for unknown id")
	}
	if got := ids(s.List()); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", got)
	}

	// Removed IDs are never reused.
	task, _ := s.Add(domain.Draft{Title: "d"})
	if task.ID != 4 {
		t.Errorf("ID after removal = %d, want 4", task.ID)
	}
}

func TestClear_ResetsCounter(t *testing.T) {
	s := newTestStore(t)
	s.Add(domain.Draft{Title: "a"})
	s.Add(domain.Draft{Title: "b"})

	s.Clear()

	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	task, err := s.Add(domain.Draft{Title: "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 1 {
		t.Errorf("ID after Clear = %d, want 1", task.ID)
	}
}

func TestIDsStayUnique(t *testing.T) {
	s := newTestStore(t)
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(10); {
		case op < 6:
			s.Add(domain.Draft{Title: "t"})
		case op < 9:
			list := s.List()
			if len(list) > 0 {
				s.Remove(list[rng.Intn(len(list))].ID)
			}
		default:
			s.Clear()
		}

		seen := map[int]bool{}
		for _, task := range s.List() {
			if seen[task.ID] {
				t.Fatalf("step %d: duplicate id %d", i, task.ID)
			}
			if task.ID >= s.NextID() {
				t.Fatalf("step %d: id %d not below counter %d", i, task.ID, s.NextID())
			}
			seen[task.ID] = true
		}
	}
}

func TestImport_Merge(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.Import(`[{"title":"A"},{"title":"B"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(tasks); !reflect.DeepEqual(got, []int{1, 2}) {
		t.Errorf("ids = %v, want [1 2]", got)
	}
	for _, task := range tasks {
		if task.EstimatedHours != 1 || task.Importance != 5 || len(task.Dependencies) != 0 {
			t.Errorf("task %d defaults not applied: %+v", task.ID, task)
		}
	}
	if s.NextID() != 3 {
		t.Errorf("NextID() = %d, want 3", s.NextID())
	}
}

func TestImport_HighIDMovesCounter(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Import(`[{"id":50,"title":"X"}]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NextID() != 51 {
		t.Errorf("NextID() = %d, want 51", s.NextID())
	}

	task, err := s.Add(domain.Draft{Title: "Y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 51 {
		t.Errorf("ID = %d, want 51", task.ID)
	}
}

func TestImport_OversizedIDKeepsCounterValid(t *testing.T) {
	s := newTestStore(t)

	tasks, err := s.Import(`[{"id":9223372036854775807,"title":"X"}]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ids(tasks); !reflect.DeepEqual(got, []int{1}) {
		t.Errorf("ids = %v, want [1]", got)
	}

	task, err := s.Add(domain.Draft{Title: "Y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task.ID != 2 {
		t.Errorf("ID = %d, want 2", task.ID)
	}
}

func TestImport_LargestIDExhaustsCounter(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Import(`[{"id":9007199254740991,"title":"X"}]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.NextID() != domain.MaxTaskID+1 {
		t.Errorf("NextID() = %d, want %d", s.NextID(), domain.MaxTaskID+1)
	}

	if _, err := s.Add(domain.Draft{Title: "Y"}); !domain.IsValidation(err) {
		t.Errorf("expected validation error once IDs run out, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}

	s.Clear()
	if task, err := s.Add(domain.Draft{Title: "Z"}); err != nil || task.ID != 1 {
		t.Errorf("after Clear: id=%d err=%v", task.ID, err)
	}
}

func TestLoadSample_ExhaustedCounterRestarts(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Import(`[{"id":9007199254740990}]`); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := ids(s.LoadSample()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("ids = %v, want [1 2 3]", got)
	}
	if s.NextID() != 4 {
		t.Errorf("NextID() = %d, want 4", s.NextID())
	}
}

func TestImport_ExportRoundTripKeepsIDs(t *testing.T) {
	s := newTestStore(t)
	s.Add(domain.Draft{Title: "a"})
	s.Add(domain.Draft{Title: "b"})
	s.Add(domain.Draft{Title: "c"})
	s.Remove(2)

	raw, err := json.Marshal(s.List())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	other := newTestStore(t)
	if _, err := other.Import(string(raw)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(other.List(), s.List()) {
		t.Errorf("round trip changed tasks:\n got %+v\nwant %+v", other.List(), s.List())
	}
	if other.NextID() != 4 {
		t.Errorf("NextID() = %d, want 4", other.NextID())
	}
}

func TestImport_FailureLeavesStoreUnchanged(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		is   func(error) bool
	}{
		{"malformed", "not json", domain.IsFormat},
		{"not an array", `{"title":"A"}`, domain.IsFormat},
		{"duplicate ids", `[{"id":1},{"id":1}]`, domain.IsValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			s.Add(domain.Draft{Title: "keep me"})
			before := s.List()

			_, err := s.Import(tt.raw)
			if !tt.is(err) {
				t.Fatalf("unexpected error classification: %v", err)
			}
			if !reflect.DeepEqual(s.List(), before) {
				t.Errorf("store changed: %+v", s.List())
			}
			if s.NextID() != 2 {
				t.Errorf("NextID() = %d, want 2", s.NextID())
			}
		})
	}
}

func TestImport_EmptyArrayKeepsCounter(t *testing.T) {
	s := newTestStore(t)
	s.Add(domain.Draft{Title: "a"})
	s.Add(domain.Draft{Title: "b"})

	if _, err := s.Import("[]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
	if s.NextID() != 3 {
		t.Errorf("NextID() = %d, want 3", s.NextID())
	}
}

func TestReplaceAll_RejectsDuplicates(t *testing.T) {
	s := newTestStore(t)
	err := s.ReplaceAll([]domain.Task{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}})
	if !domain.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestRestore_RejectsOutOfRangeIDs(t *testing.T) {
	tests := []struct {
		name string
		id   int
	}{
		{"zero", 0},
		{"negative", -1},
		{"beyond exact range", domain.MaxTaskID + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := s.Restore([]domain.Task{{ID: tt.id, Title: "x"}}, 1); !domain.IsValidation(err) {
				t.Errorf("Restore: expected validation error, got %v", err)
			}
			if err := s.ReplaceAll([]domain.Task{{ID: tt.id, Title: "x"}}); !domain.IsValidation(err) {
				t.Errorf("ReplaceAll: expected validation error, got %v", err)
			}
			if s.Len() != 0 || s.NextID() != 1 {
				t.Errorf("store changed: len=%d next=%d", s.Len(), s.NextID())
			}
		})
	}
}

func TestRestore(t *testing.T) {
	tests := []struct {
		name     string
		tasks    []domain.Task
		nextID   int
		wantNext int
	}{
		{"persisted counter kept", []domain.Task{{ID: 2}}, 9, 9},
		{"counter raised above ids", []domain.Task{{ID: 2}, {ID: 12}}, 5, 13},
		{"empty snapshot", nil, 4, 4},
		{"invalid counter", nil, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := s.Restore(tt.tasks, tt.nextID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.NextID() != tt.wantNext {
				t.Errorf("NextID() = %d, want %d", s.NextID(), tt.wantNext)
			}
		})
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	s.Add(domain.Draft{Title: "a", Dependencies: []int{7}})

	list := s.List()
	list[0].Title = "mutated"
	list[0].Dependencies[0] = 99

	again := s.List()
	if again[0].Title != "a" || again[0].Dependencies[0] != 7 {
		t.Errorf("List() exposed internal state: %+v", again[0])
	}
}

func TestLoadSample(t *testing.T) {
	s := newTestStore(t)
	s.Add(domain.Draft{Title: "old"})

	tasks := s.LoadSample()

	if got := ids(tasks); !reflect.DeepEqual(got, []int{2, 3, 4}) {
		t.Errorf("ids = %v, want [2 3 4]", got)
	}
	if s.NextID() != 5 {
		t.Errorf("NextID() = %d, want 5", s.NextID())
	}
	if tasks[0].DueDate != "2025-03-15" {
		t.Errorf("first sample due = %s, want 2025-03-15", tasks[0].DueDate)
	}
	if !reflect.DeepEqual(tasks[1].Dependencies, []int{1}) {
		t.Errorf("second sample deps = %v, want [1]", tasks[1].Dependencies)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}
