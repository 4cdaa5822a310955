// Package clienttest provides an in-process fake of the prioritization API
// for tests. Routes are served by a chi router, so wrong methods and paths
// get the same 405/404 treatment a real server gives them.
package clienttest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/prio/prio/internal/domain"
)

// AnalyzeRequest is the decoded body of an analysis call.
type AnalyzeRequest struct {
	Tasks    []domain.Task `json:"tasks"`
	Strategy string        `json:"strategy"`
}

// Server is a fake prioritization API.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	analyze      http.HandlerFunc
	suggest      http.HandlerFunc
	analyzeCalls int
	suggestCalls int
	lastAnalyze  *AnalyzeRequest
	requestIDs   []string
}

// NewServer starts a fake API that scores tasks by importance and suggests
// the top three tasks of the last analysis. It is closed when the test ends.
func NewServer(t testing.TB) *Server {
	t.Helper()

	s := &Server{}
	s.analyze = s.defaultAnalyze
	s.suggest = s.defaultSuggest

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(s.record)
	r.Post("/api/tasks/analyze/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.analyzeCalls++
		h := s.analyze
		s.mu.Unlock()
		h(w, r)
	})
	r.Get("/api/tasks/suggest/", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.suggestCalls++
		h := s.suggest
		s.mu.Unlock()
		h(w, r)
	})

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// OnAnalyze replaces the analysis handler.
func (s *Server) OnAnalyze(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyze = h
}

// OnSuggest replaces the suggestion handler.
func (s *Server) OnSuggest(h http.HandlerFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suggest = h
}

// AnalyzeCalls returns how many analysis requests reached the server.
func (s *Server) AnalyzeCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzeCalls
}

// SuggestCalls returns how many suggestion requests reached the server.
func (s *Server) SuggestCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suggestCalls
}

// LastAnalyzeRequest returns the body of the last successful default
// analysis, or nil.
func (s *Server) LastAnalyzeRequest() *AnalyzeRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAnalyze
}

// RequestIDs returns the request IDs seen so far, in arrival order.
func (s *Server) RequestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requestIDs...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requestIDs = append(s.requestIDs, chimiddleware.GetReqID(r.Context()))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) defaultAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSON(http.StatusBadRequest, map[string]string{"error": "Invalid JSON format"})(w, r)
		return
	}

	s.mu.Lock()
	s.lastAnalyze = &req
	s.mu.Unlock()

	scored := Score(req.Tasks)
	JSON(http.StatusOK, map[string]interface{}{
		"tasks":         scored,
		"strategy_used": req.Strategy,
		"total_tasks":   len(scored),
		"message":       "Analysis successful",
	})(w, r)
}

func (s *Server) defaultSuggest(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	last := s.lastAnalyze
	s.mu.Unlock()

	if last == nil || len(last.Tasks) == 0 {
		JSON(http.StatusBadRequest, map[string]string{
			"error":   "No tasks available for suggestions",
			"message": "Please analyze tasks first by sending a POST request to /api/tasks/analyze/",
		})(w, r)
		return
	}

	scored := Score(last.Tasks)
	if len(scored) > 3 {
		scored = scored[:3]
	}
	suggestions := make([]domain.Suggestion, len(scored))
	for i, st := range scored {
		suggestions[i] = domain.Suggestion{
			Rank:           i + 1,
			Title:          st.Title,
			PriorityScore:  st.PriorityScore,
			Reason:         "fake score",
			DueDate:        st.DueDate,
			EstimatedHours: st.EstimatedHours,
			Importance:     st.Importance,
		}
	}
	JSON(http.StatusOK, map[string]interface{}{
		"suggestions":          suggestions,
		"total_tasks_analyzed": len(last.Tasks),
	})(w, r)
}

// Score is the fake's deterministic stand-in for a scoring strategy:
// importance times ten, highest first, ties kept in input order.
func Score(tasks []domain.Task) []domain.ScoredTask {
	scored := make([]domain.ScoredTask, len(tasks))
	for i, t := range tasks {
		scored[i] = domain.ScoredTask{
			Task:          t,
			PriorityScore: float64(t.Importance * 10),
			Explanation:   "fake score",
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].PriorityScore > scored[j].PriorityScore
	})
	return scored
}

// JSON returns a handler that writes v as a JSON response.
func JSON(status int, v interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
}

// Raw returns a handler that writes body verbatim with the given content type.
func Raw(status int, contentType, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}

// HTML returns a handler that writes a generic HTML error page.
func HTML(status int) http.HandlerFunc {
	return Raw(status, "text/html; charset=utf-8",
		"<!DOCTYPE html><html><body><h1>"+http.StatusText(status)+"</h1></body></html>")
}
