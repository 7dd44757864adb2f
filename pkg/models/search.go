package models

import "time"

// IntentSource records which strategy produced a QueryIntent.
type IntentSource string

const (
	IntentSourceExternal IntentSource = "external"
	IntentSourceFallback IntentSource = "fallback"
)

// QueryIntent is the normalized form of a raw search query. An empty concept
// list means "no topical filter" (list-everything mode), which is distinct
// from a query that matched nothing.
type QueryIntent struct {
	RawQuery string       `json:"raw_query"`
	Concepts []string     `json:"concepts"`
	Source   IntentSource `json:"source"`
}

// TimeWindow is a half-open interval: Since is inclusive, Until exclusive.
// A nil bound means unbounded on that side.
type TimeWindow struct {
	Since *time.Time `json:"since,omitempty"`
	Until *time.Time `json:"until,omitempty"`
}

// Contains reports whether ts falls inside the window.
func (w TimeWindow) Contains(ts time.Time) bool {
	if w.Since != nil && ts.Before(*w.Since) {
		return false
	}
	if w.Until != nil && !ts.Before(*w.Until) {
		return false
	}
	return true
}

// SearchResult is one ranked hit. SessionID is the resume identifier the
// caller hands back to the external tool to continue the conversation.
type SearchResult struct {
	SessionID   string    `json:"session_id"`
	ProjectPath string    `json:"project_path"`
	Summary     string    `json:"summary"`
	Goals       []string  `json:"goals"`
	Actions     []string  `json:"actions"`
	Outcome     Outcome   `json:"outcome"`
	Similarity  float64   `json:"similarity"`
	Timestamp   time.Time `json:"timestamp"`
}
