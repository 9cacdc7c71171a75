package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// fieldSpec is an ordered list of candidate patterns for one field plus its
// cleanup and validity hooks. Candidates are tried in order; the first match
// whose cleaned value passes validation wins. A match that fails validation
// is "field not found" for that candidate, never an error.
type fieldSpec struct {
	rules    []*regexp.Regexp
	clean    func(string) string
	validate func(string) bool
}

func (s fieldSpec) extract(text string) *string {
	for _, rule := range s.rules {
		m := rule.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if s.clean != nil {
			value = strings.TrimSpace(s.clean(value))
		}
		if value == "" {
			continue
		}
		if s.validate != nil && !s.validate(value) {
			continue
		}
		return &value
	}
	return nil
}

// Placeholder runs are syntactically valid matches that are semantically
// blank filler (underscore rules, ellipses left for hand-filling).
var placeholderRuns = regexp.MustCompile(`_{2,}|＿{2,}|\.{3,}|…`)

func hasPlaceholder(s string) bool {
	return placeholderRuns.MatchString(s)
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// allZero reports whether the candidate is nothing but zeros once
// separators are removed ("0000", "00-00").
func allZero(s string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r != '0' {
			return false
		}
	}
	return true
}

func runeLen(s string) int {
	return len([]rune(s))
}
