// Package models contains domain models for claude-session-analyzer.
package models

import "time"

// Message is a single transcript entry. Immutable once parsed.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp,omitempty"`
}

// Session is one stored conversation transcript. The corpus that owns it is
// external and read-only; a Session is never written back.
type Session struct {
	// ID is stable across runs: the file stem when it already is a UUID,
	// otherwise a UUIDv5 derived from the file path.
	ID          string    `json:"session_id"`
	ProjectPath string    `json:"project_path"`
	FilePath    string    `json:"file_path"`
	Timestamp   time.Time `json:"timestamp"`
	Messages    []Message `json:"messages"`
}

// Text returns the concatenated text of all messages, separated by single
// spaces, used for whole-transcript matching.
func (s *Session) Text() string {
	total := 0
	for i := range s.Messages {
		total += len(s.Messages[i].Text) + 1
	}
	buf := make([]byte, 0, total)
	for i := range s.Messages {
		if s.Messages[i].Text == "" {
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, s.Messages[i].Text...)
	}
	return string(buf)
}
