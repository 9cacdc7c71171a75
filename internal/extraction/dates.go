package extraction

import (
	"fmt"
	"regexp"
	"strconv"
)

// The three literal date forms contracts use: ideographic, ISO with dashes,
// ISO with slashes. All normalize to yyyy-mm-dd with zero padding.
const dateForms = `\d{4}年\d{1,2}月\d{1,2}日|\d{4}-\d{1,2}-\d{1,2}|\d{4}/\d{1,2}/\d{1,2}`

var (
	anyDate     = regexp.MustCompile(dateForms)
	dateDigits  = regexp.MustCompile(`(\d{4})[年\-/](\d{1,2})[月\-/](\d{1,2})日?`)
	dateRange   = regexp.MustCompile(`(` + dateForms + `)\s*(?:至|到|—|-)\s*(` + dateForms + `)`)
	latinTokens = regexp.MustCompile(`[A-Za-z]+`)
)

func normalizeDate(token string) (string, bool) {
	m := dateDigits.FindStringSubmatch(token)
	if m == nil {
		return "", false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

// findDate returns the first date literal in text, ISO-normalized.
func findDate(text string) (string, bool) {
	token := anyDate.FindString(text)
	if token == "" {
		return "", false
	}
	return normalizeDate(token)
}

// anchorWindow is how many characters past a context keyword an anchor-date
// search looks for a date literal.
const anchorWindow = 100

// findDateNear locates the first occurrence of a context keyword and searches
// the fixed forward window after it for a date literal.
func findDateNear(text string, keyword *regexp.Regexp) *string {
	loc := keyword.FindStringIndex(text)
	if loc == nil {
		return nil
	}
	window := []rune(text[loc[1]:])
	if len(window) > anchorWindow {
		window = window[:anchorWindow]
	}
	iso, ok := findDate(string(window))
	if !ok {
		return nil
	}
	return &iso
}
