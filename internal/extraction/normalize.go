package extraction

import (
	"regexp"
	"strings"
)

var spaceRuns = regexp.MustCompile(` {2,}`)

// Normalize canonicalizes contract text before pattern matching: CRLF to LF,
// tabs to single spaces, runs of spaces collapsed (newlines are kept as-is)
// and full-width colons mapped to half-width. Idempotent, so every extractor
// can call it on its own input without coordinating with the others.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\t", " ")
	text = strings.ReplaceAll(text, "：", ":")
	return spaceRuns.ReplaceAllString(text, " ")
}
