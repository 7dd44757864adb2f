// Package store reads the externally owned transcript corpus: one directory
// per project, one JSONL file per session. The corpus may be appended to
// concurrently by its owner, so the reader tolerates partial writes.
package store

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/OWENLEEzy/claude-session-analyzer/pkg/models"
)

// ParseError reports an unreadable or unparsable session file. Individual
// malformed lines inside an otherwise readable file are skipped, not errors.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse session %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Ref identifies a session file without opening it. Scan returns Refs so
// callers can filter by time before paying the parse cost.
type Ref struct {
	SessionID   string
	ProjectPath string
	FilePath    string
	ModTime     time.Time
}

// Scan enumerates session files under root/projects. Unreadable directories
// are logged and skipped; a missing root yields an empty slice.
func Scan(root string) []Ref {
	projectsDir := filepath.Join(root, "projects")

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		log.Warn().Err(err).Str("dir", projectsDir).Msg("Projects directory not readable")
		return nil
	}

	var refs []Ref
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		projectDir := filepath.Join(projectsDir, entry.Name())
		files, err := os.ReadDir(projectDir)
		if err != nil {
			log.Warn().Err(err).Str("dir", projectDir).Msg("Skipping unreadable project directory")
			continue
		}
		project := DecodeProjectPath(entry.Name())
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".jsonl") {
				continue
			}
			info, err := f.Info()
			if err != nil {
				log.Debug().Err(err).Str("file", f.Name()).Msg("Skipping unstatable session file")
				continue
			}
			path := filepath.Join(projectDir, f.Name())
			refs = append(refs, Ref{
				SessionID:   SessionID(path),
				ProjectPath: project,
				FilePath:    path,
				ModTime:     info.ModTime(),
			})
		}
	}
	return refs
}

// DecodeProjectPath turns an encoded project directory name back into a
// filesystem path ("-Users-foo-myapp" becomes "/Users/foo/myapp").
func DecodeProjectPath(dirName string) string {
	if strings.HasPrefix(dirName, "-") {
		return strings.ReplaceAll(dirName, "-", "/")
	}
	return dirName
}

// SessionID derives the stable resume identifier for a session file: the
// file stem when it already is a UUID, otherwise a UUIDv5 of the path.
func SessionID(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if _, err := uuid.Parse(stem); err == nil {
		return stem
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+path)).String()
}

// transcriptLine is the top-level JSONL record shape. Unknown extra fields
// are tolerated; only the ones below matter.
type transcriptLine struct {
	Type      string          `json:"type"`
	Text      string          `json:"text"`
	Timestamp string          `json:"timestamp"`
	Message   json.RawMessage `json:"message"`
}

type messagePayload struct {
	Role    string          `json:"role"`
	Content json.RawMessage `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Load parses one session file into a Session. Malformed lines are skipped
// and counted, never fatal; a trailing line with no newline terminator is an
// in-progress append and treated as absent. File-level failures return a
// *ParseError.
func Load(path string) (*models.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var messages []models.Message
	skipped := 0
	r := bufio.NewReaderSize(f, 64*1024)
	for {
		line, err := r.ReadString('\n')
		if err == io.EOF {
			// No newline terminator: the owner is still appending this
			// record, so it does not exist yet.
			break
		}
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		msg, ok := parseLine(line)
		if !ok {
			skipped++
			continue
		}
		messages = append(messages, msg)
	}
	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Str("file", path).Msg("Skipped malformed transcript lines")
	}

	return &models.Session{
		ID:          SessionID(path),
		ProjectPath: DecodeProjectPath(filepath.Base(filepath.Dir(path))),
		FilePath:    path,
		Timestamp:   info.ModTime(),
		Messages:    messages,
	}, nil
}

// parseLine extracts role, text, and timestamp from one JSONL record.
// Returns false for records it cannot decode.
func parseLine(line string) (models.Message, bool) {
	var tl transcriptLine
	if err := json.Unmarshal([]byte(line), &tl); err != nil {
		return models.Message{}, false
	}

	msg := models.Message{Role: tl.Type}
	if tl.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, tl.Timestamp); err == nil {
			msg.Timestamp = ts
		}
	}

	if len(tl.Message) > 0 {
		// message can be a payload object or a bare string.
		var payload messagePayload
		if err := json.Unmarshal(tl.Message, &payload); err == nil {
			if payload.Role != "" {
				msg.Role = payload.Role
			}
			msg.Text = extractContent(payload.Content)
		} else {
			var s string
			if err := json.Unmarshal(tl.Message, &s); err == nil {
				msg.Text = s
			}
		}
	}
	if msg.Text == "" && tl.Text != "" {
		msg.Text = tl.Text
	}
	msg.Text = CleanText(msg.Text)

	if msg.Role == "" && msg.Text == "" {
		return models.Message{}, false
	}
	return msg, true
}

// extractContent handles the two content encodings: a plain string, or a
// list of typed blocks of which only "text" blocks carry prose.
func extractContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err == nil {
		var b strings.Builder
		for _, block := range blocks {
			if block.Type != "text" || block.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(block.Text)
		}
		return b.String()
	}
	return ""
}
