// Package importer reconciles a bulk JSON task document with the identifier
// space of a task store.
//
// Parse is a pure function: it never touches a store. The caller passes the
// store's current next ID and replaces its contents with the result.
package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/prio/prio/internal/domain"
)

// Parse parses raw as a JSON array of task objects and applies the field
// default policy to every element. Elements without a usable id receive
// nextID plus their index; an id is usable when it is an integer between
// domain.MinTaskID and domain.MaxTaskID. today supplies the default due date.
//
// Unparseable input yields a format error; two elements resolving to the
// same id yield a validation error.
func Parse(raw string, nextID int, today time.Time) ([]domain.Task, error) {
	elems, err := decodeArray(raw)
	if err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(elems))
	seen := make(map[int]int, len(elems))
	for i, elem := range elems {
		obj, ok := elem.(map[string]interface{})
		if !ok {
			return nil, domain.NewFormatError(fmt.Sprintf("element %d is not a JSON object", i), nil)
		}

		task := reconcile(obj, i, nextID, today)
		if prev, dup := seen[task.ID]; dup {
			return nil, domain.NewValidationError(
				fmt.Sprintf("duplicate task id %d at index %d (already used at index %d)", task.ID, i, prev))
		}
		seen[task.ID] = i
		tasks = append(tasks, task)
	}

	return tasks, nil
}

// decodeArray decodes the top-level JSON array, keeping numbers exact.
func decodeArray(raw string) ([]interface{}, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NewFormatError("no JSON data provided", nil)
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, domain.NewFormatError("invalid JSON: "+err.Error(), err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, domain.NewFormatError("invalid JSON: "+err.Error(), err)
	}

	elems, ok := doc.([]interface{})
	if !ok {
		return nil, domain.NewFormatError("JSON must be an array", nil)
	}
	return elems, nil
}

// reconcile builds a task from one element of the document.
func reconcile(obj map[string]interface{}, index, nextID int, today time.Time) domain.Task {
	task := domain.Task{
		ID:             nextID + index,
		Title:          fmt.Sprintf("Task %d", index+1),
		DueDate:        domain.Today(today),
		EstimatedHours: domain.DefaultEstimatedHours,
		Importance:     domain.DefaultImportance,
		Dependencies:   []int{},
	}

	if id, ok := exactInt(obj["id"]); ok && domain.ValidID(id) {
		task.ID = id
	}
	if title, ok := obj["title"].(string); ok && strings.TrimSpace(title) != "" {
		task.Title = title
	}
	if due, ok := obj["due_date"].(string); ok && due != "" {
		task.DueDate = due
	}
	if hours, ok := leadingInt(obj["estimated_hours"]); ok && hours >= 1 {
		task.EstimatedHours = hours
	}
	if importance, ok := leadingInt(obj["importance"]); ok {
		task.Importance = importance
	}
	task.Importance = domain.ClampImportance(task.Importance)

	if deps, ok := obj["dependencies"].([]interface{}); ok {
		for _, d := range deps {
			if id, ok := exactInt(d); ok {
				task.Dependencies = append(task.Dependencies, id)
			}
		}
	}

	return task
}

// maxSafeInt bounds every integer accepted from the document.
const maxSafeInt = domain.MaxTaskID

// exactInt accepts integral JSON numbers and strings holding an integer,
// provided the magnitude does not exceed maxSafeInt.
func exactInt(v interface{}) (int, bool) {
	var n int64
	switch val := v.(type) {
	case json.Number:
		i, err := val.Int64()
		if err != nil {
			f, ferr := val.Float64()
			if ferr != nil || f != math.Trunc(f) || math.Abs(f) > maxSafeInt {
				return 0, false
			}
			i = int64(f)
		}
		n = i
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(val), 10, 64)
		if err != nil {
			return 0, false
		}
		n = i
	default:
		return 0, false
	}
	if n > maxSafeInt || n < -maxSafeInt {
		return 0, false
	}
	return int(n), true
}

// leadingInt mirrors lenient integer parsing of form values: numbers are
// truncated toward zero and strings contribute their leading sign and digits
// ("5h" is 5, "3.7" is 3).
func leadingInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case json.Number:
		f, err := val.Float64()
		if err != nil || math.IsInf(f, 0) || math.Abs(f) > maxSafeInt {
			return 0, false
		}
		return int(math.Trunc(f)), true
	case string:
		s := strings.TrimLeft(val, " \t\n\r")
		end := 0
		if end < len(s) && (s[end] == '+' || s[end] == '-') {
			end++
		}
		digits := end
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == digits {
			return 0, false
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
