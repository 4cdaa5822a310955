package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/prio/prio/internal/domain"
	"github.com/prio/prio/internal/session"
)

// terminalPresenter renders session output as tables or JSON.
type terminalPresenter struct {
	mu         sync.Mutex
	out        io.Writer
	errOut     io.Writer
	jsonOutput bool
	errorShown bool
}

func newTerminalPresenter(out, errOut io.Writer, jsonOutput bool) *terminalPresenter {
	return &terminalPresenter{out: out, errOut: errOut, jsonOutput: jsonOutput}
}

func (p *terminalPresenter) RenderTasks(tasks []domain.Task) {
	p.mu.Lock()
	defer p.mu.Unlock()
	printTaskList(p.out, tasks, p.jsonOutput)
}

func (p *terminalPresenter) RenderAnalysis(result *domain.AnalysisResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	printAnalysis(p.out, result, p.jsonOutput)
}

func (p *terminalPresenter) RenderSuggestions(suggestions []domain.Suggestion) {
	p.mu.Lock()
	defer p.mu.Unlock()
	printSuggestions(p.out, suggestions, p.jsonOutput)
}

// ClearResults is a no-op: terminal output is not redrawn.
func (p *terminalPresenter) ClearResults() {}

func (p *terminalPresenter) SetLoading(loading bool) {
	if !loading || p.jsonOutput {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.errOut, "Contacting prioritization server...")
}

// ShowMessage prints success notices to stdout in table mode and errors to
// stderr in both modes.
func (p *terminalPresenter) ShowMessage(msg session.Message) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if msg.IsError() {
		p.errorShown = true
		printError(p.errOut, fmt.Errorf("%s", msg.Text), p.jsonOutput)
		return
	}
	if !p.jsonOutput {
		fmt.Fprintln(p.out, msg.Text)
	}
}

// HideMessage is a no-op: printed lines cannot be taken back.
func (p *terminalPresenter) HideMessage() {}

// ErrorShown reports whether an error message has been printed.
func (p *terminalPresenter) ErrorShown() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.errorShown
}

func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

// printTaskList prints the task list
func printTaskList(w io.Writer, tasks []domain.Task, jsonOutput bool) {
	if jsonOutput {
		if tasks == nil {
			tasks = []domain.Task{}
		}
		writeJSON(w, tasks)
		return
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks yet")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID\tTITLE\tDUE\tHOURS\tIMPORTANCE\tDEPENDS ON\n")
	fmt.Fprintf(tw, "--\t-----\t---\t-----\t----------\t----------\n")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d/10\t%s\n",
			t.ID, truncate(t.Title, 40), t.DueDate, t.EstimatedHours, t.Importance, formatDeps(t.Dependencies))
	}
	tw.Flush()
}

// printAnalysis prints the ranked analysis result
func printAnalysis(w io.Writer, result *domain.AnalysisResult, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, result)
		return
	}

	fmt.Fprintln(w, "Analysis Results")
	fmt.Fprintf(w, "Total tasks: %d\n", len(result.Tasks))
	if result.StrategyUsed != "" {
		fmt.Fprintf(w, "Strategy: %s\n", result.StrategyUsed)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tTITLE\tSCORE\tPRIORITY\tDUE\tHOURS\tIMPORTANCE\n")
	fmt.Fprintf(tw, "----\t-----\t-----\t--------\t---\t-----\t----------\n")
	for i, t := range result.Tasks {
		fmt.Fprintf(tw, "#%d\t%s\t%s\t%s\t%s\t%d\t%d/10\n",
			i+1, truncate(t.Title, 40), formatScore(t.PriorityScore), t.Severity(), t.DueDate, t.EstimatedHours, t.Importance)
	}
	tw.Flush()

	for i, t := range result.Tasks {
		if t.Explanation == "" {
			continue
		}
		fmt.Fprintf(w, "\n#%d %s\n  %s\n", i+1, t.Title, t.Explanation)
	}
}

// printSuggestions prints the suggestion panel
func printSuggestions(w io.Writer, suggestions []domain.Suggestion, jsonOutput bool) {
	if jsonOutput {
		if suggestions == nil {
			suggestions = []domain.Suggestion{}
		}
		writeJSON(w, suggestions)
		return
	}

	if len(suggestions) == 0 {
		fmt.Fprintln(w, "No suggestions")
		return
	}

	fmt.Fprintln(w, "Suggested next tasks")
	for _, s := range suggestions {
		fmt.Fprintf(w, "\n#%d: %s\n", s.Rank, s.Title)
		tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', 0)
		fmt.Fprintf(tw, "  Score:\t%s\n", formatScore(s.PriorityScore))
		fmt.Fprintf(tw, "  Reason:\t%s\n", s.Reason)
		fmt.Fprintf(tw, "  Due:\t%s\n", s.DueDate)
		fmt.Fprintf(tw, "  Effort:\t%dh\n", s.EstimatedHours)
		fmt.Fprintf(tw, "  Importance:\t%d/10\n", s.Importance)
		tw.Flush()
	}
}

// printError prints an error message
func printError(w io.Writer, err error, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"error": map[string]interface{}{
				"message": err.Error(),
			},
		})
		return
	}

	fmt.Fprintf(w, "Error: %s\n", err.Error())
}

// printSuccess prints a success message
func printSuccess(w io.Writer, message string, jsonOutput bool) {
	if jsonOutput {
		writeJSON(w, map[string]interface{}{
			"message": message,
		})
		return
	}

	fmt.Fprintln(w, message)
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

func formatDeps(deps []int) string {
	if len(deps) == 0 {
		return "-"
	}
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// truncate truncates a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
