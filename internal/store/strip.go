package store

import (
	"regexp"
	"strings"
)

var (
	// systemReminderRegex matches <system-reminder>...</system-reminder>
	// blocks injected into user turns by the transcript owner.
	systemReminderRegex = regexp.MustCompile(`(?s)<system-reminder>.*?</system-reminder>`)

	// commandTagRegex matches the slash-command envelope tags
	// (<command-name>, <command-message>, <command-args>,
	// <local-command-stdout>) and their contents.
	commandTagRegex = regexp.MustCompile(`(?s)<(command-name|command-message|command-args|local-command-stdout)>.*?</(command-name|command-message|command-args|local-command-stdout)>`)
)

// StripInjectedTags removes transcript-owner tag blocks from message text.
// What remains is what the participant actually wrote.
func StripInjectedTags(text string) string {
	text = systemReminderRegex.ReplaceAllString(text, "")
	text = commandTagRegex.ReplaceAllString(text, "")
	return text
}

// IsEntirelyInjected reports whether the text carries nothing beyond
// injected tag blocks.
func IsEntirelyInjected(text string) bool {
	return strings.TrimSpace(StripInjectedTags(text)) == ""
}

// CleanText strips injected tag blocks and surrounding whitespace.
func CleanText(text string) string {
	return strings.TrimSpace(StripInjectedTags(text))
}
