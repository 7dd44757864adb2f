// Package searcher composes the transcript reader, summarizer, intent
// extractor, and reranker into the search and analyze-file operations.
package searcher

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/analyzer"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/intent"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/rank"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/store"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/timewin"
	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

const defaultParallelism = 8

// Searcher is a single read-only pipeline over the corpus. It holds no
// mutable state between invocations.
type Searcher struct {
	root        string
	analyzer    *analyzer.Analyzer
	extractor   intent.Extractor
	reranker    *rank.Reranker
	parallelism int
	now         func() time.Time
}

// Option customizes a Searcher at construction.
type Option func(*Searcher)

// WithClock pins the reference time, so tests get reproducible windows and
// decay scores.
func WithClock(now func() time.Time) Option {
	return func(s *Searcher) { s.now = now }
}

// WithParallelism bounds concurrent session summarization.
func WithParallelism(n int) Option {
	return func(s *Searcher) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// New wires the pipeline from configuration. The intent extractor is passed
// in because its strategy (external vs fallback) is a construction-time
// decision of the caller.
func New(cfg config.Config, extractor intent.Extractor, opts ...Option) (*Searcher, error) {
	reranker, err := rank.New(cfg.Weights, cfg.HalfLife)
	if err != nil {
		return nil, err
	}
	s := &Searcher{
		root:        cfg.ClaudeDir,
		analyzer:    analyzer.New(),
		extractor:   extractor,
		reranker:    reranker,
		parallelism: defaultParallelism,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search resolves the time window, enumerates sessions (filtering by window
// before any file is opened), summarizes the survivors in parallel, extracts
// the query intent, and reranks. The only surfaced error kind is an invalid
// time expression; corrupt sessions are logged and skipped.
func (s *Searcher) Search(ctx context.Context, query, sinceExpr, untilExpr string, limit int) ([]models.SearchResult, error) {
	now := s.now()

	window, err := timewin.Resolve(sinceExpr, untilExpr, now)
	if err != nil {
		return nil, err
	}

	refs := store.Scan(s.root)
	survivors := refs[:0]
	for _, ref := range refs {
		if window.Contains(ref.ModTime) {
			survivors = append(survivors, ref)
		}
	}

	candidates := s.summarize(ctx, survivors)
	queryIntent := s.extractor.Extract(ctx, query)

	log.Debug().
		Int("candidates", len(candidates)).
		Strs("concepts", queryIntent.Concepts).
		Str("intent_source", string(queryIntent.Source)).
		Msg("Reranking candidates")

	// Rerank is always reapplied after collection: parallel completion
	// order carries no ranking meaning.
	return s.reranker.Rerank(candidates, queryIntent, window, now, limit), nil
}

// AnalyzeFile summarizes one named session file, bypassing search. An
// unparsable or missing path surfaces a *store.ParseError.
func (s *Searcher) AnalyzeFile(ctx context.Context, path string) (models.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return models.AnalysisResult{}, err
	}
	session, err := store.Load(path)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	return s.analyzer.Analyze(session), nil
}

// summarize loads and analyzes the surviving refs with bounded parallelism.
// Per-file parse failures exclude that session only.
func (s *Searcher) summarize(ctx context.Context, refs []store.Ref) []models.SearchResult {
	slots := make([]*models.SearchResult, len(refs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i, ref := range refs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			session, err := store.Load(ref.FilePath)
			if err != nil {
				log.Warn().Err(err).Str("file", ref.FilePath).Msg("Excluding unreadable session")
				return nil
			}
			analysis := s.analyzer.Analyze(session)
			slots[i] = &models.SearchResult{
				SessionID:   ref.SessionID,
				ProjectPath: ref.ProjectPath,
				Summary:     analysis.Summary,
				Goals:       analysis.Goals,
				Actions:     analysis.Actions,
				Outcome:     analysis.Outcome,
				Timestamp:   ref.ModTime,
			}
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.SearchResult, 0, len(refs))
	for _, slot := range slots {
		if slot != nil {
			results = append(results, *slot)
		}
	}
	return results
}
