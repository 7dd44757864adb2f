// Package analyzer derives a structured goal/action/outcome summary from a
// session transcript using marker-word heuristics. Analysis never fails; a
// transcript with no recognizable markers yields confidence 0.
package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// Limits bound the size of the extracted summary.
type Limits struct {
	MaxGoals   int
	MaxActions int
	// GoalScanWindow is how many of the earliest user messages are scanned
	// for goals.
	GoalScanWindow int
	// OutcomeTail is how many trailing messages are scanned for
	// success/failure markers.
	OutcomeTail     int
	GoalPhraseLen   int
	ActionPhraseLen int
}

// DefaultLimits mirror the caps of the original heuristics: three goals,
// five actions, phrases truncated past 50/40 runes.
func DefaultLimits() Limits {
	return Limits{
		MaxGoals:        3,
		MaxActions:      5,
		GoalScanWindow:  10,
		OutcomeTail:     10,
		GoalPhraseLen:   50,
		ActionPhraseLen: 40,
	}
}

// filePattern matches source-file mentions inside assistant text.
var filePattern = regexp.MustCompile(`\b[a-zA-Z_][\w./-]*\.(?:go|ts|tsx|js|jsx|py|md|json|yaml|yml)\b`)

// Analyzer extracts goals, actions, and an outcome from transcripts.
type Analyzer struct {
	vocab  Vocabulary
	limits Limits
}

// New returns an Analyzer with the default vocabulary and limits.
func New() *Analyzer {
	return NewWith(DefaultVocabulary(), DefaultLimits())
}

// NewWith returns an Analyzer with a pinned vocabulary and limits.
func NewWith(vocab Vocabulary, limits Limits) *Analyzer {
	return &Analyzer{vocab: vocab, limits: limits}
}

// Analyze summarizes a session. It never fails: missing evidence produces
// empty fields, outcome "unknown", and a confidence of 0.
func (a *Analyzer) Analyze(session *models.Session) models.AnalysisResult {
	result := models.AnalysisResult{Outcome: models.OutcomeUnknown}
	if session != nil {
		result.Goals = a.extractGoals(session.Messages)
		result.Actions = a.extractActions(session.Messages)
		result.Outcome = a.determineOutcome(session.Messages)
	}
	result.Confidence = confidence(result)
	result.Summary = summarize(result)
	return result
}

// extractGoals scans the earliest user messages for sentences carrying goal
// markers and keeps distinct phrases in first-occurrence order.
func (a *Analyzer) extractGoals(messages []models.Message) []string {
	var goals []string
	seen := make(map[string]struct{})
	scanned := 0

	for _, msg := range messages {
		if !isUserRole(msg.Role) {
			continue
		}
		scanned++
		if scanned > a.limits.GoalScanWindow {
			break
		}
		for _, sentence := range splitSentences(msg.Text) {
			if !containsAnyMarker(sentence, a.vocab.GoalMarkers) {
				continue
			}
			phrase := a.goalPhrase(sentence)
			if phrase == "" {
				continue
			}
			if _, dup := seen[phrase]; dup {
				continue
			}
			seen[phrase] = struct{}{}
			goals = append(goals, phrase)
			if len(goals) >= a.limits.MaxGoals {
				return goals
			}
		}
	}
	return goals
}

// extractActions scans assistant and tool messages for operation verbs and
// file mentions.
func (a *Analyzer) extractActions(messages []models.Message) []string {
	var actions []string
	seen := make(map[string]struct{})

	add := func(action string) bool {
		if action == "" {
			return false
		}
		if _, dup := seen[action]; dup {
			return false
		}
		seen[action] = struct{}{}
		actions = append(actions, action)
		return len(actions) >= a.limits.MaxActions
	}

	for _, msg := range messages {
		if isUserRole(msg.Role) {
			continue
		}
		for _, file := range filePattern.FindAllString(msg.Text, -1) {
			if add("modify " + file) {
				return actions
			}
		}
		for _, sentence := range splitSentences(msg.Text) {
			if !containsAnyMarker(sentence, a.vocab.ActionMarkers) {
				continue
			}
			if add(truncatePhrase(sentence, a.limits.ActionPhraseLen)) {
				return actions
			}
		}
	}
	return actions
}

// determineOutcome scans the final portion of the transcript. Both
// polarities present means partial; neither means unknown.
func (a *Analyzer) determineOutcome(messages []models.Message) models.Outcome {
	start := len(messages) - a.limits.OutcomeTail
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	for _, msg := range messages[start:] {
		b.WriteString(msg.Text)
		b.WriteByte('\n')
	}
	tail := strings.ToLower(b.String())

	success := countMarkers(tail, a.vocab.SuccessMarkers)
	failure := countMarkers(tail, a.vocab.FailureMarkers)
	partial := countMarkers(tail, a.vocab.PartialMarkers)

	switch {
	case success > 0 && failure > 0:
		return models.OutcomePartial
	case success > 0:
		return models.OutcomeSuccess
	case failure > 0:
		return models.OutcomeFailure
	case partial > 0:
		return models.OutcomePartial
	default:
		return models.OutcomeUnknown
	}
}

// confidence is the fraction of {goals, actions, outcome} backed by direct
// textual evidence.
func confidence(result models.AnalysisResult) float64 {
	backed := 0
	if len(result.Goals) > 0 {
		backed++
	}
	if len(result.Actions) > 0 {
		backed++
	}
	if result.Outcome != models.OutcomeUnknown {
		backed++
	}
	return float64(backed) / 3.0
}

// summarize renders the fixed template. Empty fields get neutral
// placeholders so a summary is always producible and never invents facts.
func summarize(result models.AnalysisResult) string {
	goal := "unspecified"
	if len(result.Goals) > 0 {
		goal = result.Goals[0]
	}
	actions := "none recorded"
	if len(result.Actions) > 0 {
		actions = strings.Join(result.Actions, ", ")
	}
	return fmt.Sprintf("Goal: %s | Actions: %s | Outcome: %s", goal, actions, result.Outcome)
}

func (a *Analyzer) goalPhrase(sentence string) string {
	phrase := strings.TrimSpace(sentence)
	lower := strings.ToLower(phrase)
	for _, prefix := range a.vocab.RequestPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			phrase = strings.TrimSpace(phrase[len(prefix):])
			break
		}
	}
	return truncatePhrase(phrase, a.limits.GoalPhraseLen)
}

func truncatePhrase(s string, maxRunes int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	return string(runes[:maxRunes]) + "..."
}

func isUserRole(role string) bool {
	return role == "user" || role == "human"
}

// splitSentences breaks text on sentence punctuation (Latin and CJK) and
// newlines. A Latin full stop only terminates a sentence when followed by
// whitespace or end of text, so file names like handler.go stay intact.
func splitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	flush := func(end int) {
		s := strings.TrimSpace(string(runes[start:end]))
		if s != "" {
			sentences = append(sentences, s)
		}
	}

	for i, r := range runes {
		switch r {
		case '。', '!', '?', '！', '？', '\n':
			flush(i)
			start = i + 1
		case '.':
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(runes))
	return sentences
}

// containsAnyMarker reports whether the sentence carries one of the markers.
// ASCII markers match on word boundaries; CJK markers by substring.
func containsAnyMarker(sentence string, markers []string) bool {
	lower := strings.ToLower(sentence)
	for _, marker := range markers {
		if isASCIIWord(marker) {
			if containsWord(lower, strings.ToLower(marker)) {
				return true
			}
		} else if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

func countMarkers(text string, markers []string) int {
	n := 0
	for _, marker := range markers {
		if isASCIIWord(marker) {
			if containsWord(text, strings.ToLower(marker)) {
				n++
			}
		} else if strings.Contains(text, marker) {
			n++
		}
	}
	return n
}

func isASCIIWord(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// containsWord reports whether word occurs in text delimited by non-letter
// non-digit runes, so "test" does not match "latest".
func containsWord(text, word string) bool {
	for idx := 0; ; {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		i += idx
		end := i + len(word)
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
