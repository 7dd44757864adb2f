package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ReaderSuite struct {
	suite.Suite
	root string
}

func TestReaderSuite(t *testing.T) {
	suite.Run(t, new(ReaderSuite))
}

func (s *ReaderSuite) SetupTest() {
	s.root = s.T().TempDir()
}

// writeSession creates projects/<project>/<name> with the given raw content.
func (s *ReaderSuite) writeSession(project, name, content string) string {
	dir := filepath.Join(s.root, "projects", project)
	s.Require().NoError(os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validLines = `{"type":"user","message":{"role":"user","content":"fix the login bug"},"timestamp":"2026-08-28T10:00:00Z"}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"looking at auth.go"},{"type":"thinking","thinking":"hmm"}]}}
{"type":"assistant","message":{"role":"assistant","content":[{"type":"text","text":"done"}]}}
`

func (s *ReaderSuite) TestLoad_ParsesRolesAndContentShapes() {
	path := s.writeSession("-Users-alice-webapp", "3f1d9b2e-0000-4000-8000-000000000001.jsonl", validLines)

	session, err := Load(path)
	s.Require().NoError(err)

	assert.Equal(s.T(), "3f1d9b2e-0000-4000-8000-000000000001", session.ID)
	assert.Equal(s.T(), "/Users/alice/webapp", session.ProjectPath)
	s.Require().Len(session.Messages, 3)

	assert.Equal(s.T(), "user", session.Messages[0].Role)
	assert.Equal(s.T(), "fix the login bug", session.Messages[0].Text)
	assert.Equal(s.T(), time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC), session.Messages[0].Timestamp)

	// Block lists keep text blocks only; thinking blocks are dropped.
	assert.Equal(s.T(), "looking at auth.go", session.Messages[1].Text)
	assert.Equal(s.T(), "done", session.Messages[2].Text)
}

func (s *ReaderSuite) TestLoad_MalformedLineIsSkippedNotFatal() {
	content := `{"type":"user","message":{"role":"user","content":"first"}}
{not json at all
{"type":"user","message":{"role":"user","content":"second"}}
{"type":"user","message":{"role":"user","content":"third"}}
`
	path := s.writeSession("proj", "corrupt.jsonl", content)

	session, err := Load(path)
	s.Require().NoError(err)
	assert.Len(s.T(), session.Messages, 3, "one malformed line among N valid lines yields N-1 records, no error")
}

func (s *ReaderSuite) TestLoad_TrailingIncompleteLineTreatedAsAbsent() {
	content := `{"type":"user","message":{"role":"user","content":"complete"}}
{"type":"user","message":{"role":"user","content":"being appended right n`
	path := s.writeSession("proj", "appending.jsonl", content)

	session, err := Load(path)
	s.Require().NoError(err)
	s.Require().Len(session.Messages, 1)
	assert.Equal(s.T(), "complete", session.Messages[0].Text)
}

func (s *ReaderSuite) TestLoad_UnknownFieldsTolerated() {
	content := `{"type":"user","uuid":"x","cwd":"/tmp","gitBranch":"main","message":{"role":"user","content":"hello"},"extra":{"nested":true}}
`
	path := s.writeSession("proj", "extra.jsonl", content)

	session, err := Load(path)
	s.Require().NoError(err)
	s.Require().Len(session.Messages, 1)
	assert.Equal(s.T(), "hello", session.Messages[0].Text)
}

func (s *ReaderSuite) TestLoad_AlternateRecordShapes() {
	content := `{"type":"summary","text":"session about auth"}
{"type":"progress","message":"plain string message"}
`
	path := s.writeSession("proj", "shapes.jsonl", content)

	session, err := Load(path)
	s.Require().NoError(err)
	s.Require().Len(session.Messages, 2)
	assert.Equal(s.T(), "session about auth", session.Messages[0].Text)
	assert.Equal(s.T(), "plain string message", session.Messages[1].Text)
}

func (s *ReaderSuite) TestLoad_MissingFileIsParseError() {
	_, err := Load(filepath.Join(s.root, "nope.jsonl"))
	require.Error(s.T(), err)

	var parseErr *ParseError
	require.True(s.T(), errors.As(err, &parseErr))
	assert.Contains(s.T(), parseErr.Path, "nope.jsonl")
}

func (s *ReaderSuite) TestSessionID_StableAcrossRuns() {
	path := s.writeSession("proj", "notes-about-auth.jsonl", validLines)

	first := SessionID(path)
	second := SessionID(path)

	assert.Equal(s.T(), first, second)
	_, err := uuid.Parse(first)
	assert.NoError(s.T(), err, "derived IDs are well-formed UUIDs")
	assert.NotEqual(s.T(), "notes-about-auth", first)

	other := SessionID(filepath.Join(s.root, "other.jsonl"))
	assert.NotEqual(s.T(), first, other)
}

func (s *ReaderSuite) TestScan_EnumeratesWithoutOpeningFiles() {
	s.writeSession("-Users-alice-webapp", "aaa.jsonl", validLines)
	s.writeSession("-Users-alice-webapp", "bbb.jsonl", validLines)
	s.writeSession("-Users-bob-api", "ccc.jsonl", validLines)
	s.writeSession("-Users-bob-api", "README.md", "not a session")

	refs := Scan(s.root)

	s.Require().Len(refs, 3)
	projects := map[string]int{}
	for _, ref := range refs {
		projects[ref.ProjectPath]++
		assert.NotEmpty(s.T(), ref.SessionID)
		assert.False(s.T(), ref.ModTime.IsZero())
	}
	assert.Equal(s.T(), 2, projects["/Users/alice/webapp"])
	assert.Equal(s.T(), 1, projects["/Users/bob/api"])
}

func (s *ReaderSuite) TestScan_MissingRootYieldsNothing() {
	refs := Scan(filepath.Join(s.root, "does-not-exist"))
	assert.Empty(s.T(), refs)
}

func (s *ReaderSuite) TestDecodeProjectPath() {
	assert.Equal(s.T(), "/Users/foo/projects/myapp", DecodeProjectPath("-Users-foo-projects-myapp"))
	assert.Equal(s.T(), "plain-name", DecodeProjectPath("plain-name"), "names without the leading dash stay as-is")
}
