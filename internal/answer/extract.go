// Package answer recovers the declared answer of an agent run and turns it
// into a normalized set of URLs comparable with a task's ground truth.
package answer

import (
	"regexp"
	"strings"

	"github.com/spachava753/webmall-eval/internal/models"
)

// doneMarker opens the terminal outcome in the textual form of a history.
const doneMarker = "'done':"

var (
	urlPattern = regexp.MustCompile(`(?i)\bhttps?://(?:localhost|\d{1,3}(?:\.\d{1,3}){3}|(?:[a-z0-9-]+\.)+[a-z]{2,})(?::\d{2,5})?(?:/[^\s<>"'{}|\\^` + "`" + `\[\]]*)?`)

	doubleQuotedText = regexp.MustCompile(`(?s)'text':\s*"((?:[^"\\]|\\.)*)"`)
	singleQuotedText = regexp.MustCompile(`(?s)'text':\s*'((?:[^'\\]|\\.)*)'`)
)

// Extract returns the normalized URLs the agent declared as its answer. A
// nil trace, a trace without a terminal outcome or one whose payload cannot
// be found yields an empty set.
func Extract(trace models.Trace) Set {
	text, ok := FinalText(trace)
	if !ok {
		return NewSet()
	}
	return ExtractURLs(text)
}

// FinalText returns the free-text payload of the most recent terminal
// outcome.
func FinalText(trace models.Trace) (string, bool) {
	switch t := trace.(type) {
	case models.TraceAvailable:
		return finalFromHistory(t.History)
	case *models.TraceAvailable:
		if t == nil {
			return "", false
		}
		return finalFromHistory(t.History)
	case models.TraceUnavailable:
		return finalFromText(t.Raw)
	case *models.TraceUnavailable:
		if t == nil {
			return "", false
		}
		return finalFromText(t.Raw)
	default:
		return "", false
	}
}

func finalFromHistory(h models.History) (string, bool) {
	outcomes := h.Outcomes()
	for i := len(outcomes) - 1; i >= 0; i-- {
		o := outcomes[i]
		if !o.IsDone {
			continue
		}
		if o.ExtractedContent == nil {
			return "", false
		}
		return *o.ExtractedContent, true
	}
	return "", false
}

func finalFromText(raw string) (string, bool) {
	idx := strings.LastIndex(raw, doneMarker)
	if idx < 0 {
		return "", false
	}
	tail := raw[idx+len(doneMarker):]

	if m := doubleQuotedText.FindStringSubmatch(tail); m != nil {
		return strings.ReplaceAll(m[1], `\"`, `"`), true
	}
	if m := singleQuotedText.FindStringSubmatch(tail); m != nil {
		return strings.ReplaceAll(m[1], `\'`, `'`), true
	}
	return "", false
}

// ExtractURLs tokenizes every scheme-qualified URL in text. Literal "\n"
// sequences and the "###" separator both split answers.
func ExtractURLs(text string) Set {
	text = strings.ReplaceAll(text, `\n`, "\n")
	text = strings.ReplaceAll(text, "###", "\n")

	out := NewSet()
	for _, match := range urlPattern.FindAllString(text, -1) {
		if u := Normalize(match); u != "" {
			out.Add(u)
		}
	}
	return out
}

// Normalize strips trailing punctuation, whitespace and stray backslashes,
// then a trailing path separator.
func Normalize(s string) string {
	s = strings.TrimRight(s, ".,;:!?\n\r\t \\")
	return strings.TrimRight(s, "/")
}

// Expected returns the ground truth of a task, normalized the same way as
// extracted answers.
func Expected(task models.Task) Set {
	out := NewSet()
	if task.CorrectAnswer == nil {
		return out
	}
	for _, a := range task.CorrectAnswer.Answers {
		if n := Normalize(a); n != "" {
			out.Add(n)
		}
	}
	return out
}
