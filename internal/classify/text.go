// Package classify cleans free text and labels it with keyword rules.
package classify

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
	anySpace   = regexp.MustCompile(`\s+`)
)

// Clean normalizes line endings, collapses spaces and tabs, limits blank
// lines to one and trims the result.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = spaceRun.ReplaceAllString(s, " ")
	s = newlineRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// JoinComments joins comment bodies in their original order, one per line.
func JoinComments(comments []string) string {
	return Clean(strings.Join(comments, "\n"))
}

// Concat builds the searchable text of a record: title, description and
// comments on their own lines, each cleaned, the whole trimmed.
func Concat(title, description, comments string) string {
	parts := []string{Clean(title), Clean(description), Clean(comments)}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

// Normalize prepares text for keyword matching: NFC composed, lowercased,
// every whitespace run collapsed to a single space.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.TrimSpace(anySpace.ReplaceAllString(s, " "))
}
