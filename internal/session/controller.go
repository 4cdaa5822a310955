// Package session drives a task-prioritization session: it applies user
// actions to the task store, calls the remote service, and reports results
// and status messages through a Presenter.
package session

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/prio/prio/internal/domain"
	"github.com/prio/prio/internal/store"
)

// AnalysisClient scores a task set.
type AnalysisClient interface {
	Analyze(ctx context.Context, tasks []domain.Task, strategy domain.Strategy) (*domain.AnalysisResult, error)
}

// SuggestionClient fetches the ranked short list.
type SuggestionClient interface {
	Suggest(ctx context.Context) ([]domain.Suggestion, error)
}

// Presenter renders session state. Calls may arrive from several
// goroutines, including the message dismissal timer.
type Presenter interface {
	RenderTasks(tasks []domain.Task)
	RenderAnalysis(result *domain.AnalysisResult)
	RenderSuggestions(suggestions []domain.Suggestion)
	ClearResults()
	SetLoading(loading bool)
	ShowMessage(msg Message)
	HideMessage()
}

// Controller coordinates one session.
type Controller struct {
	tasks     *store.TaskStore
	analyzer  AnalysisClient
	suggester SuggestionClient
	presenter Presenter
	logger    *log.Logger

	dismissDelay time.Duration

	msgMu      sync.Mutex
	timer      *time.Timer
	generation uint64

	analysis   Call
	suggestion Call
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger for action failures.
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDismissDelay overrides how long success messages stay visible.
// Zero or negative keeps them until replaced.
func WithDismissDelay(d time.Duration) Option {
	return func(c *Controller) {
		c.dismissDelay = d
	}
}

// New creates a Controller.
func New(tasks *store.TaskStore, analyzer AnalysisClient, suggester SuggestionClient, presenter Presenter, opts ...Option) *Controller {
	c := &Controller{
		tasks:        tasks,
		analyzer:     analyzer,
		suggester:    suggester,
		presenter:    presenter,
		logger:       log.New(io.Discard, "", 0),
		dismissDelay: DefaultDismissDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Tasks returns the store the controller acts on.
func (c *Controller) Tasks() *store.TaskStore {
	return c.tasks
}

// AnalysisState returns the state of the last analysis call.
func (c *Controller) AnalysisState() CallState {
	return c.analysis.State()
}

// SuggestionState returns the state of the last suggestion call.
func (c *Controller) SuggestionState() CallState {
	return c.suggestion.State()
}

// AddTask validates and stores a task entered by the user.
func (c *Controller) AddTask(draft domain.Draft) (domain.Task, error) {
	task, err := c.tasks.Add(draft)
	if err != nil {
		c.failure(err.Error())
		return domain.Task{}, err
	}
	c.presenter.RenderTasks(c.tasks.List())
	c.success("Task added successfully!")
	return task, nil
}

// RemoveTask deletes the task with the given id and reports whether it was
// present. An unknown id leaves the store as it is.
func (c *Controller) RemoveTask(id int) bool {
	removed := c.tasks.Remove(id)
	c.presenter.RenderTasks(c.tasks.List())
	c.success("Task removed!")
	return removed
}

// ClearTasks empties the store and the displayed results.
func (c *Controller) ClearTasks() {
	c.tasks.Clear()
	c.presenter.RenderTasks(c.tasks.List())
	c.clearResults()
	c.success("All tasks cleared!")
}

// ImportJSON replaces the store's tasks with a JSON array. On failure the
// store is left unchanged.
func (c *Controller) ImportJSON(raw string) ([]domain.Task, error) {
	if strings.TrimSpace(raw) == "" {
		err := domain.NewFormatError("Please enter JSON data", nil)
		c.failure(err.Error())
		return nil, err
	}

	imported, err := c.tasks.Import(raw)
	if err != nil {
		c.logger.Printf("import failed: %v", err)
		c.failure("Invalid JSON: " + err.Error())
		return nil, err
	}
	c.presenter.RenderTasks(c.tasks.List())
	c.success("JSON processed successfully!")
	return imported, nil
}

// LoadSample replaces the tasks with the demonstration set.
func (c *Controller) LoadSample() []domain.Task {
	added := c.tasks.LoadSample()
	c.presenter.RenderTasks(c.tasks.List())
	c.success("Sample data loaded! Analyze the tasks to see prioritization.")
	return added
}

// AnalyzeTasks sends the current tasks to the analysis service.
// An empty strategy selects the default.
func (c *Controller) AnalyzeTasks(ctx context.Context, strategy domain.Strategy) (*domain.AnalysisResult, error) {
	if c.tasks.Len() == 0 {
		err := domain.NewEmptyInputError()
		c.failure(err.Error())
		return nil, err
	}
	if strategy == "" {
		strategy = domain.DefaultStrategy
	}
	if !strategy.IsValid() {
		err := domain.NewValidationError(fmt.Sprintf("Unknown strategy %q", strategy))
		c.failure(err.Error())
		return nil, err
	}

	c.analysis.Begin()
	c.presenter.SetLoading(true)
	defer c.presenter.SetLoading(false)
	c.clearResults()

	result, err := c.analyzer.Analyze(ctx, c.tasks.List(), strategy)
	c.analysis.Finish(err)
	if err != nil {
		c.logger.Printf("analysis failed: %v", err)
		c.failure("Analysis failed: " + err.Error())
		return nil, err
	}

	c.presenter.RenderAnalysis(result)
	c.success(fmt.Sprintf("Successfully analyzed %d tasks!", result.TotalTasks))
	return result, nil
}

// GetSuggestions fetches the ranked short list from the service.
func (c *Controller) GetSuggestions(ctx context.Context) ([]domain.Suggestion, error) {
	c.suggestion.Begin()
	c.presenter.SetLoading(true)
	defer c.presenter.SetLoading(false)
	c.hideMessage()

	suggestions, err := c.suggester.Suggest(ctx)
	c.suggestion.Finish(err)
	if err != nil {
		c.logger.Printf("suggestions failed: %v", err)
		c.failure("Suggestions failed: " + err.Error())
		return nil, err
	}

	c.presenter.RenderSuggestions(suggestions)
	c.success("Suggestions loaded!")
	return suggestions, nil
}

// Dismiss hides the current message.
func (c *Controller) Dismiss() {
	c.hideMessage()
}

// Close cancels any pending message dismissal.
func (c *Controller) Close() {
	c.msgMu.Lock()
	defer c.msgMu.Unlock()
	c.cancelDismissLocked()
}

func (c *Controller) clearResults() {
	c.presenter.ClearResults()
	c.hideMessage()
}
