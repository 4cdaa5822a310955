package domain

// Strategy names a prioritization algorithm run by the analysis endpoint.
type Strategy string

const (
	StrategySmartBalance   Strategy = "smart_balance"
	StrategyFastestWins    Strategy = "fastest_wins"
	StrategyHighImpact     Strategy = "high_impact"
	StrategyDeadlineDriven Strategy = "deadline_driven"
)

// DefaultStrategy is used when no strategy is configured.
const DefaultStrategy = StrategySmartBalance

// ValidStrategies contains every strategy the analysis endpoint understands.
var ValidStrategies = []Strategy{
	StrategySmartBalance,
	StrategyFastestWins,
	StrategyHighImpact,
	StrategyDeadlineDriven,
}

// IsValid checks if the strategy is a known strategy.
func (s Strategy) IsValid() bool {
	for _, v := range ValidStrategies {
		if s == v {
			return true
		}
	}
	return false
}

// ScoredTask is a task annotated with a priority score by the analysis endpoint.
type ScoredTask struct {
	Task
	PriorityScore float64 `json:"priority_score"`
	Explanation   string  `json:"explanation"`
}

// Severity returns the display bucket for the task's score.
func (t ScoredTask) Severity() Severity {
	return SeverityFor(t.PriorityScore)
}

// AnalysisResult is the ranked output of an analysis call.
type AnalysisResult struct {
	Tasks        []ScoredTask `json:"tasks"`
	TotalTasks   int          `json:"total_tasks"`
	StrategyUsed string       `json:"strategy_used,omitempty"`
	Message      string       `json:"message,omitempty"`
}

// Suggestion is one entry of the suggestion panel.
type Suggestion struct {
	Rank           int     `json:"rank"`
	Title          string  `json:"title"`
	PriorityScore  float64 `json:"priority_score"`
	Reason         string  `json:"reason"`
	Explanation    string  `json:"explanation,omitempty"`
	DueDate        string  `json:"due_date"`
	EstimatedHours int     `json:"estimated_hours"`
	Importance     int     `json:"importance"`
}

// Severity is the display bucket of a priority score.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Severity thresholds.
const (
	HighScoreThreshold   = 70
	MediumScoreThreshold = 40
)

// SeverityFor buckets a priority score.
func SeverityFor(score float64) Severity {
	switch {
	case score >= HighScoreThreshold:
		return SeverityHigh
	case score >= MediumScoreThreshold:
		return SeverityMedium
	default:
		return SeverityLow
	}
}
