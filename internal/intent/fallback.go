package intent

import (
	"context"
	"strings"
	"unicode"

	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// defaultStopwords are filler words stripped from query tokens, English and
// Chinese. The list is deliberately small; a query made only of stopwords
// degenerates to list-everything mode, which is the intended behavior.
var defaultStopwords = []string{
	"the", "a", "an", "and", "or", "for", "to", "of", "in", "on",
	"is", "was", "do", "did", "what", "how", "about", "my", "we",
	"继续", "做", "搞", "想", "要", "什么", "怎么", "做了", "的", "了吗",
}

// Fallback is the deterministic local extractor: whitespace/punctuation
// tokenization, lower-cased Latin tokens, CJK spans segmented into candidate
// words, stopwords stripped. It is always available and independently
// testable.
type Fallback struct {
	stopwords map[string]struct{}
}

// NewFallback builds the fallback extractor; extra words are appended to the
// built-in stopword list.
func NewFallback(extraStopwords []string) *Fallback {
	stop := make(map[string]struct{}, len(defaultStopwords)+len(extraStopwords))
	for _, w := range defaultStopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range extraStopwords {
		stop[strings.ToLower(w)] = struct{}{}
	}
	return &Fallback{stopwords: stop}
}

// Extract never fails. An empty query yields an empty concept set, which
// signals "no topical filter" to the reranker.
func (f *Fallback) Extract(_ context.Context, query string) models.QueryIntent {
	var candidates []string
	for _, token := range tokenize(query) {
		if token.cjk {
			candidates = append(candidates, segmentCJK(token.text)...)
		} else if len(token.text) > 1 {
			candidates = append(candidates, strings.ToLower(token.text))
		}
	}

	var concepts []string
	for _, c := range candidates {
		if _, stop := f.stopwords[c]; stop {
			continue
		}
		concepts = append(concepts, c)
	}

	return models.QueryIntent{
		RawQuery: query,
		Concepts: normalizeConcepts(concepts),
		Source:   models.IntentSourceFallback,
	}
}

type token struct {
	text string
	cjk  bool
}

// tokenize splits the query into maximal runs of word runes, keeping Latin
// and CJK runs separate so each can be segmented appropriately.
func tokenize(query string) []token {
	var tokens []token
	var current []rune
	currentCJK := false

	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, token{text: string(current), cjk: currentCJK})
			current = nil
		}
	}

	for _, r := range query {
		switch {
		case isCJK(r):
			if !currentCJK {
				flush()
			}
			currentCJK = true
			current = append(current, r)
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if currentCJK {
				flush()
			}
			currentCJK = false
			current = append(current, r)
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// segmentCJK turns a CJK span into candidate words: overlapping bigrams, or
// the single rune when the span has length one. Without a dictionary,
// bigrams are the standard cheap approximation of word segmentation.
func segmentCJK(span string) []string {
	runes := []rune(span)
	if len(runes) == 1 {
		return []string{span}
	}
	words := make([]string, 0, len(runes)-1)
	for i := 0; i+1 < len(runes); i++ {
		words = append(words, string(runes[i:i+2]))
	}
	return words
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}
