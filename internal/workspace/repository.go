package workspace

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/prio/prio/internal/domain"
)

const nextIDKey = "next_id"

// Snapshot is the persisted state of a task store.
type Snapshot struct {
	Tasks  []domain.Task
	NextID int
}

// Repository loads and saves one workspace.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a Repository on an initialized database.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Load reads the snapshot. An empty workspace yields no tasks and NextID 1.
func (r *Repository) Load(ctx context.Context) (*Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, due_date, estimated_hours, importance, dependencies
		FROM tasks ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	nextID, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	return &Snapshot{Tasks: tasks, NextID: nextID}, nil
}

// Save replaces the stored snapshot in one transaction.
func (r *Repository) Save(ctx context.Context, snap Snapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM tasks"); err != nil {
		return fmt.Errorf("failed to clear tasks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks (position, id, title, due_date, estimated_hours, importance, dependencies)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range snap.Tasks {
		deps := t.Dependencies
		if deps == nil {
			deps = []int{}
		}
		depsJSON, err := json.Marshal(deps)
		if err != nil {
			return fmt.Errorf("failed to encode dependencies of task %d: %w", t.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Title, t.DueDate, t.EstimatedHours, t.Importance, string(depsJSON)); err != nil {
			return fmt.Errorf("failed to save task %d: %w", t.ID, err)
		}
	}

	nextID := snap.NextID
	if nextID < 1 {
		nextID = 1
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, nextIDKey, strconv.Itoa(nextID)); err != nil {
		return fmt.Errorf("failed to save next id: %w", err)
	}

	return tx.Commit()
}

func (r *Repository) nextID(ctx context.Context) (int, error) {
	var value string
	err := r.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", nextIDKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to load next id: %w", err)
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("corrupt next id %q", value)
	}
	return n, nil
}

func scanTask(rows *sql.Rows) (domain.Task, error) {
	var (
		t        domain.Task
		depsJSON string
	)
	if err := rows.Scan(&t.ID, &t.Title, &t.DueDate, &t.EstimatedHours, &t.Importance, &depsJSON); err != nil {
		return domain.Task{}, fmt.Errorf("failed to scan task: %w", err)
	}

	t.Dependencies = []int{}
	if err := json.Unmarshal([]byte(depsJSON), &t.Dependencies); err != nil {
		return domain.Task{}, fmt.Errorf("corrupt dependencies for task %d: %w", t.ID, err)
	}
	if t.Dependencies == nil {
		t.Dependencies = []int{}
	}
	return t, nil
}
