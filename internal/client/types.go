package client

import (
	"encoding/json"

	"github.com/prio/prio/internal/domain"
)

// analyzeRequest is the JSON request body for the analysis endpoint.
type analyzeRequest struct {
	Tasks    []domain.Task `json:"tasks"`
	Strategy string        `json:"strategy"`
}

// suggestResponse is the JSON success body of the suggestion endpoint.
type suggestResponse struct {
	Suggestions        []domain.Suggestion `json:"suggestions"`
	TotalTasksAnalyzed int                 `json:"total_tasks_analyzed,omitempty"`
}

// errorResponse is the structured error body. The error field is normally a
// string; an object carrying a message is accepted as well.
type errorResponse struct {
	Error json.RawMessage `json:"error"`
}

// errorObject is the object form of the error field.
type errorObject struct {
	Message string `json:"message"`
}

// message extracts the human-readable error message, or "" if none.
func (r errorResponse) message() string {
	if len(r.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Error, &s); err == nil {
		return s
	}
	var obj errorObject
	if err := json.Unmarshal(r.Error, &obj); err == nil {
		return obj.Message
	}
	return ""
}
