package searcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/OWENLEEzy/claude-session-analyzer/internal/config"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/intent"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/store"
	"github.com/OWENLEEzy/claude-session-analyzer/internal/timewin"
)

type SearcherSuite struct {
	suite.Suite
	root     string
	now      time.Time
	searcher *Searcher

	idA, idB, idC string
}

func TestSearcherSuite(t *testing.T) {
	suite.Run(t, new(SearcherSuite))
}

func (s *SearcherSuite) SetupTest() {
	s.root = s.T().TempDir()
	// Pinned midday reference so day-granular windows never straddle the
	// wall-clock midnight.
	s.now = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	// Session A: 2 days old, about authentication, ended in success.
	s.idA = s.writeSession("-home-dev-webapp", "aaaaaaaa-1111-4000-8000-000000000001.jsonl",
		`{"type":"user","message":{"role":"user","content":"Please fix the authentication flow"}}
{"type":"assistant","message":{"role":"assistant","content":"I will update middleware.go"}}
{"type":"assistant","message":{"role":"assistant","content":"all tests passed"}}
`, s.now.Add(-48*time.Hour))

	// Session B: 30 days old, also about authentication.
	s.idB = s.writeSession("-home-dev-api", "bbbbbbbb-2222-4000-8000-000000000002.jsonl",
		`{"type":"user","message":{"role":"user","content":"implement authentication tokens"}}
{"type":"assistant","message":{"role":"assistant","content":"configured the token store"}}
`, s.now.Add(-30*24*time.Hour))

	// Session C: 1 hour old, unrelated text.
	s.idC = s.writeSession("-home-dev-notes", "cccccccc-3333-4000-8000-000000000003.jsonl",
		`{"type":"user","message":{"role":"user","content":"tell me about the weather forecast"}}
{"type":"assistant","message":{"role":"assistant","content":"it looks sunny"}}
`, s.now.Add(-time.Hour))

	cfg := config.Default()
	cfg.ClaudeDir = s.root

	var err error
	s.searcher, err = New(cfg, intent.NewFallback(nil),
		WithClock(func() time.Time { return s.now }),
		WithParallelism(4))
	s.Require().NoError(err)
}

func (s *SearcherSuite) writeSession(project, name, content string, mtime time.Time) string {
	dir := filepath.Join(s.root, "projects", project)
	s.Require().NoError(os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	s.Require().NoError(os.Chtimes(path, mtime, mtime))
	return store.SessionID(path)
}

func (s *SearcherSuite) search(query, since, until string, limit int) []string {
	results, err := s.searcher.Search(context.Background(), query, since, until, limit)
	s.Require().NoError(err)
	ids := make([]string, 0, len(results))
	for _, r := range results {
		ids = append(ids, r.SessionID)
	}
	return ids
}

func (s *SearcherSuite) TestSearch_TopicalQueryWithWindow() {
	// B is outside the 7-day window, C does not mention authentication.
	assert.Equal(s.T(), []string{s.idA}, s.search("authentication", "week", "", 10))
}

func (s *SearcherSuite) TestSearch_EmptyQueryListsByRecency() {
	assert.Equal(s.T(), []string{s.idC, s.idA, s.idB}, s.search("", "", "", 10))
}

func (s *SearcherSuite) TestSearch_LimitTruncates() {
	assert.Equal(s.T(), []string{s.idC}, s.search("", "", "", 1))
}

func (s *SearcherSuite) TestSearch_TopicalQueryWithoutWindow() {
	ids := s.search("authentication", "", "", 10)
	assert.ElementsMatch(s.T(), []string{s.idA, s.idB}, ids)
	assert.NotContains(s.T(), ids, s.idC)
}

func (s *SearcherSuite) TestSearch_WindowFilterSkipsLoading() {
	// Only C survives a today-only window.
	assert.Equal(s.T(), []string{s.idC}, s.search("", "today", "", 10))
}

func (s *SearcherSuite) TestSearch_InvalidTimeExpressionSurfaced() {
	_, err := s.searcher.Search(context.Background(), "auth", "fortnight", "", 10)

	var invalid *timewin.InvalidTimeExpressionError
	s.Require().True(errors.As(err, &invalid))
	assert.Equal(s.T(), "fortnight", invalid.Expr)
}

func (s *SearcherSuite) TestSearch_ResultsCarryAnalysis() {
	results, err := s.searcher.Search(context.Background(), "authentication", "week", "", 10)
	s.Require().NoError(err)
	s.Require().Len(results, 1)

	r := results[0]
	assert.Equal(s.T(), "/home/dev/webapp", r.ProjectPath)
	assert.Contains(s.T(), r.Goals, "fix the authentication flow")
	assert.Equal(s.T(), "success", string(r.Outcome))
	assert.Greater(s.T(), r.Similarity, 0.0)
	assert.LessOrEqual(s.T(), r.Similarity, 1.0)
}

func (s *SearcherSuite) TestSearch_CorruptSessionExcludedNotFatal() {
	s.writeSession("-home-dev-webapp", "not-even-json.jsonl",
		""+string([]byte{0xff, 0xfe})+"garbage\n", s.now.Add(-time.Minute))

	ids := s.search("", "", "", 10)
	assert.Contains(s.T(), ids, s.idC, "rest of the corpus still returned")
}

func (s *SearcherSuite) TestAnalyzeFile_Direct() {
	path := filepath.Join(s.root, "projects", "-home-dev-webapp", "aaaaaaaa-1111-4000-8000-000000000001.jsonl")

	result, err := s.searcher.AnalyzeFile(context.Background(), path)
	s.Require().NoError(err)

	assert.Contains(s.T(), result.Goals, "fix the authentication flow")
	assert.Equal(s.T(), "success", string(result.Outcome))
	assert.InDelta(s.T(), 1.0, result.Confidence, 1e-9)
}

func (s *SearcherSuite) TestAnalyzeFile_MissingPathIsParseError() {
	_, err := s.searcher.AnalyzeFile(context.Background(), filepath.Join(s.root, "missing.jsonl"))

	var parseErr *store.ParseError
	assert.True(s.T(), errors.As(err, &parseErr))
}
