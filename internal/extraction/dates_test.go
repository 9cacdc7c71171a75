package extraction

import (
	"regexp"
	"testing"
)

func TestNormalizeDateLiteralForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2026年2月1日", "2026-02-01"},
		{"2026-2-1", "2026-02-01"},
		{"2026/02/01", "2026-02-01"},
		{"2026年12月31日", "2026-12-31"},
	}
	for _, tc := range cases {
		got, ok := normalizeDate(tc.in)
		if !ok {
			t.Fatalf("normalizeDate(%q) not recognized", tc.in)
		}
		if got != tc.want {
			t.Fatalf("normalizeDate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeDateRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"2026年13月1日", "2026-02-32", "no date here"} {
		if got, ok := normalizeDate(in); ok {
			t.Fatalf("normalizeDate(%q) = %q, want rejection", in, got)
		}
	}
}

func TestFindDateNear(t *testing.T) {
	keyword := regexp.MustCompile(`签订日期`)

	got := findDateNear("本合同签订日期:2026年2月1日。", keyword)
	if got == nil || *got != "2026-02-01" {
		t.Fatalf("findDateNear() = %v, want 2026-02-01", got)
	}

	if got := findDateNear("本合同于2026年2月1日签订。", keyword); got != nil {
		t.Fatalf("expected nil without the keyword, got %q", *got)
	}
	if got := findDateNear("签订日期:另行约定。", keyword); got != nil {
		t.Fatalf("expected nil without a date literal, got %q", *got)
	}
}
