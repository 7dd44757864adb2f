// Package intent turns a raw search query into a normalized concept set.
// Two interchangeable strategies implement Extractor: one backed by an
// external concept-extraction service, and a deterministic local fallback.
// The strategy is selected once at construction; extraction itself never
// fails from the caller's point of view.
package intent

import (
	"context"
	"strings"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// MaxConcepts caps the concept set of a single query.
const MaxConcepts = 5

// Extractor produces a QueryIntent from raw query text. Implementations
// must not return errors; degraded extraction is reported through
// QueryIntent.Source instead.
type Extractor interface {
	Extract(ctx context.Context, query string) models.QueryIntent
}

// NewExtractor selects the strategy: external-backed when an API key is
// configured, the local fallback otherwise.
func NewExtractor(cfg config.Config) Extractor {
	fallback := NewFallback(cfg.ExtraStopwords)
	if cfg.AnthropicAPIKey == "" {
		return fallback
	}
	return NewExternal(cfg, fallback)
}

// normalizeConcepts lower-cases, trims, dedupes (order-preserving), and caps
// a concept list.
func normalizeConcepts(concepts []string) []string {
	seen := make(map[string]struct{}, len(concepts))
	out := make([]string, 0, len(concepts))
	for _, c := range concepts {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
		if len(out) >= MaxConcepts {
			break
		}
	}
	return out
}
