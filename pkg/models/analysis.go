package models

// Outcome classifies how a session ended.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
	OutcomePartial Outcome = "partial"
	OutcomeUnknown Outcome = "unknown"
)

// AnalysisResult is the structured summary derived from a session transcript.
// It is ephemeral and recomputed per query; the summary only restates facts
// present in Goals, Actions, and Outcome.
type AnalysisResult struct {
	Goals      []string `json:"goals"`
	Actions    []string `json:"actions"`
	Outcome    Outcome  `json:"outcome"`
	Confidence float64  `json:"confidence"`
	Summary    string   `json:"summary"`
}
