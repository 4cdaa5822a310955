package workspace

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/prio/prio/internal/domain"
)

func setupRepo(t *testing.T) (*Manager, *Repository) {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "workspaces"))
	if err != nil {
		t.Fatalf("failed to create manager: %v", err)
	}
	t.Cleanup(func() { m.Close() })

	repo, err := m.Open("test")
	if err != nil {
		t.Fatalf("failed to open workspace: %v", err)
	}
	return m, repo
}

func TestLoad_Empty(t *testing.T) {
	_, repo := setupRepo(t)

	snap, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snap.Tasks) != 0 || snap.Tasks == nil {
		t.Errorf("Tasks = %#v, want empty slice", snap.Tasks)
	}
	if snap.NextID != 1 {
		t.Errorf("NextID = %d, want 1", snap.NextID)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	want := Snapshot{
		Tasks: []domain.Task{
			{ID: 7, Title: "Later id first", DueDate: "2025-03-20", EstimatedHours: 2, Importance: 4, Dependencies: []int{}},
			{ID: 3, Title: "Fix login", DueDate: "2025-03-15", EstimatedHours: 3, Importance: 9, Dependencies: []int{7, 99}},
			{ID: 5, Title: "Docs", DueDate: "2025-03-17", EstimatedHours: 1, Importance: 10, Dependencies: []int{3}},
		},
		NextID: 12,
	}

	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(got.Tasks, want.Tasks) {
		t.Errorf("Tasks = %+v\nwant %+v", got.Tasks, want.Tasks)
	}
	if got.NextID != 12 {
		t.Errorf("NextID = %d, want 12", got.NextID)
	}
}

func TestSave_Replaces(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	first := Snapshot{
		Tasks: []domain.Task{
			{ID: 1, Title: "A", DueDate: "2025-03-15", EstimatedHours: 1, Importance: 5},
			{ID: 2, Title: "B", DueDate: "2025-03-15", EstimatedHours: 1, Importance: 5},
		},
		NextID: 3,
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, Snapshot{NextID: 1}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tasks) != 0 || got.NextID != 1 {
		t.Errorf("got %+v, want empty workspace", got)
	}
}

func TestSave_NilDependenciesStoredEmpty(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	err := repo.Save(ctx, Snapshot{
		Tasks:  []domain.Task{{ID: 1, Title: "A", DueDate: "2025-03-15", EstimatedHours: 1, Importance: 5}},
		NextID: 2,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, _ := repo.Load(ctx)
	if got.Tasks[0].Dependencies == nil || len(got.Tasks[0].Dependencies) != 0 {
		t.Errorf("Dependencies = %#v, want []int{}", got.Tasks[0].Dependencies)
	}
}

func TestSave_DuplicateIDRollsBack(t *testing.T) {
	_, repo := setupRepo(t)
	ctx := context.Background()

	good := Snapshot{
		Tasks:  []domain.Task{{ID: 1, Title: "Keep", DueDate: "2025-03-15", EstimatedHours: 1, Importance: 5}},
		NextID: 2,
	}
	if err := repo.Save(ctx, good); err != nil {
		t.Fatalf("Save: %v", err)
	}

	bad := Snapshot{
		Tasks: []domain.Task{
			{ID: 4, Title: "X", DueDate: "2025-03-15", EstimatedHours: 1, Importance: 5},
			{ID: 4, Title: "Y", DueDate: "2025-03-15", EstimatedHours: 1, Importance: 5},
		},
		NextID: 5,
	}
	if err := repo.Save(ctx, bad); err == nil {
		t.Fatal("expected error for duplicate ids")
	}

	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Tasks) != 1 || got.Tasks[0].Title != "Keep" || got.NextID != 2 {
		t.Errorf("failed save should leave workspace unchanged, got %+v", got)
	}
}

func TestManager_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	m1, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	repo, err := m1.Open("work")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	snap := Snapshot{
		Tasks:  []domain.Task{{ID: 1, Title: "A", DueDate: "2025-03-15", EstimatedHours: 2, Importance: 6, Dependencies: []int{}}},
		NextID: 2,
	}
	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := m1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m2, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m2.Close()
	repo, err = m2.Open("work")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got.Tasks, snap.Tasks) || got.NextID != 2 {
		t.Errorf("got %+v, want %+v", got, snap)
	}
}

func TestManager_DBIsCached(t *testing.T) {
	m, _ := setupRepo(t)

	a, err := m.DB("test")
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	b, err := m.DB("test")
	if err != nil {
		t.Fatalf("DB: %v", err)
	}
	if a != b {
		t.Error("DB should return the same connection for a workspace")
	}
}

func TestManager_List(t *testing.T) {
	dir := t.TempDir()
	m, err := NewManager(dir)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	defer m.Close()

	for _, name := range []string{"beta", "alpha"} {
		if _, err := m.Open(name); err != nil {
			t.Fatalf("Open(%s): %v", name, err)
		}
	}
	os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644)
	os.Mkdir(filepath.Join(dir, "sub.db"), 0755)

	names, err := m.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	sort.Strings(names)
	if !reflect.DeepEqual(names, []string{"alpha", "beta"}) {
		t.Errorf("List() = %v", names)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"my-tasks", false},
		{"work_2025.q1", false},
		{"A", false},
		{"", true},
		{"../escape", true},
		{"has space", true},
		{".hidden", true},
		{"a/b", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			}
		})
	}
}

func TestManager_RejectsBadName(t *testing.T) {
	m, _ := setupRepo(t)

	if _, err := m.Open("../x"); err == nil {
		t.Error("expected error for path-like workspace name")
	}
}
