// Package rank orders search candidates by a fixed-weight fusion of concept
// overlap, recency decay, and project affinity. The resulting order is a
// deterministic total order.
package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

const (
	// DefaultHalfLife is the recency-decay half-life: a week-old session
	// scores half the recency of a brand-new one.
	DefaultHalfLife = 7 * 24 * time.Hour

	// DefaultLimit is used when the caller passes a non-positive limit.
	DefaultLimit = 5

	// neutralAffinity is the project-affinity contribution when no concept
	// appears in the project path.
	neutralAffinity = 0.5

	weightTolerance = 0.01
)

// Reranker scores and orders candidates. Weights and half-life are fixed at
// construction so repeated calls are reproducible.
type Reranker struct {
	weights  config.Weights
	halfLife time.Duration
}

// New validates that the weights sum to 1 (within tolerance) and that the
// half-life is positive.
func New(weights config.Weights, halfLife time.Duration) (*Reranker, error) {
	sum := weights.Overlap + weights.Recency + weights.Affinity
	if math.Abs(sum-1.0) > weightTolerance {
		return nil, fmt.Errorf("ranking weights must sum to 1.0, got %.3f", sum)
	}
	if halfLife <= 0 {
		return nil, fmt.Errorf("half-life must be positive, got %v", halfLife)
	}
	return &Reranker{weights: weights, halfLife: halfLife}, nil
}

// Rerank filters candidates by the window, scores each against the intent,
// sorts by similarity descending (ties: timestamp descending, then session
// ID ascending), and truncates to limit.
func (r *Reranker) Rerank(candidates []models.SearchResult, intent models.QueryIntent, window models.TimeWindow, now time.Time, limit int) []models.SearchResult {
	if limit <= 0 {
		limit = DefaultLimit
	}

	scored := make([]models.SearchResult, 0, len(candidates))
	for _, c := range candidates {
		if !window.Contains(c.Timestamp) {
			continue
		}
		overlap := conceptOverlap(c, intent.Concepts)
		// A topical query only returns topical matches; this keeps "no
		// matches" distinct from the empty-query list-everything mode.
		if len(intent.Concepts) > 0 && overlap == 0 {
			continue
		}
		c.Similarity = r.score(overlap, c, intent.Concepts, now)
		scored = append(scored, c)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Similarity != scored[j].Similarity {
			return scored[i].Similarity > scored[j].Similarity
		}
		if !scored[i].Timestamp.Equal(scored[j].Timestamp) {
			return scored[i].Timestamp.After(scored[j].Timestamp)
		}
		return scored[i].SessionID < scored[j].SessionID
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// score fuses the three signals and clamps to [0,1].
func (r *Reranker) score(overlap float64, c models.SearchResult, concepts []string, now time.Time) float64 {
	recency := r.recency(c.Timestamp, now)
	affinity := projectAffinity(c.ProjectPath, concepts)

	s := r.weights.Overlap*overlap + r.weights.Recency*recency + r.weights.Affinity*affinity
	return math.Min(1.0, math.Max(0.0, s))
}

// conceptOverlap is the fraction of concepts found in the candidate's goals,
// actions, and summary. An empty concept set means no topical filter, which
// scores 1.0 everywhere (pure-recency mode).
func conceptOverlap(c models.SearchResult, concepts []string) float64 {
	if len(concepts) == 0 {
		return 1.0
	}

	var b strings.Builder
	b.WriteString(c.Summary)
	for _, g := range c.Goals {
		b.WriteByte(' ')
		b.WriteString(g)
	}
	for _, a := range c.Actions {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	text := strings.ToLower(b.String())

	matched := 0
	for _, concept := range concepts {
		if matchConcept(text, strings.ToLower(concept)) {
			matched++
		}
	}
	return float64(matched) / float64(len(concepts))
}

// matchConcept is language-aware: Latin concepts match on token boundaries,
// CJK concepts by substring (CJK text has no token delimiters).
func matchConcept(text, concept string) bool {
	if concept == "" {
		return false
	}
	if hasNonASCII(concept) {
		return strings.Contains(text, concept)
	}
	return containsToken(text, concept)
}

// recency is an exponential decay of age, strictly monotonic and normalized
// to (0,1]. Sessions dated in the future clamp to 1.
func (r *Reranker) recency(ts time.Time, now time.Time) float64 {
	age := now.Sub(ts)
	if age <= 0 {
		return 1.0
	}
	return math.Pow(0.5, float64(age)/float64(r.halfLife))
}

// projectAffinity boosts candidates whose project path carries one of the
// concepts as (part of) a path segment; otherwise it stays neutral.
func projectAffinity(projectPath string, concepts []string) float64 {
	if len(concepts) == 0 || projectPath == "" {
		return neutralAffinity
	}
	for _, segment := range strings.Split(strings.ToLower(projectPath), "/") {
		if segment == "" {
			continue
		}
		for _, concept := range concepts {
			if concept != "" && strings.Contains(segment, strings.ToLower(concept)) {
				return 1.0
			}
		}
	}
	return neutralAffinity
}

func hasNonASCII(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return false
}

// containsToken reports whether tok occurs in text delimited by non-letter,
// non-digit runes.
func containsToken(text, tok string) bool {
	for idx := 0; ; {
		i := strings.Index(text[idx:], tok)
		if i < 0 {
			return false
		}
		i += idx
		end := i + len(tok)
		before, _ := utf8.DecodeLastRuneInString(text[:i])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(before) && !isWordRune(after) {
			return true
		}
		idx = i + 1
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
