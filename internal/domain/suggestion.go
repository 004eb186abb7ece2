package domain

import "github.com/shopspring/decimal"

// SuggestionPriority orders advisor output: high before medium before low.
type SuggestionPriority string

const (
	PriorityHigh   SuggestionPriority = "high"
	PriorityMedium SuggestionPriority = "medium"
	PriorityLow    SuggestionPriority = "low"
)

// Rank maps a priority to its sort position. Unknown priorities sink.
func (p SuggestionPriority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Suggestion is one explainable optimization recommendation.
type Suggestion struct {
	Type             string             `json:"type"`
	Priority         SuggestionPriority `json:"priority"`
	Message          string             `json:"message"`
	PotentialSavings *decimal.Decimal   `json:"potentialSavings,omitempty"`
}
